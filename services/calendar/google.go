package calendar

import (
	"context"
	"fmt"
	"time"

	"bookline/models"
	"bookline/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// callTimeout bounds every outbound Google Calendar call. External calls are
// fire-to-completion; the caller retries the whole request on failure.
const callTimeout = 10 * time.Second

// GoogleCalendarClient implements BusySource and EventSink against the Google
// Calendar API using service-account credentials.
type GoogleCalendarClient struct {
	svc *gcal.Service
}

// NewGoogleCalendarClient builds a client from a service-account key file.
func NewGoogleCalendarClient(ctx context.Context, credentialsFile string) (*GoogleCalendarClient, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize google calendar client: %w", err)
	}
	return &GoogleCalendarClient{svc: svc}, nil
}

func (c *GoogleCalendarClient) BusyIntervals(ctx context.Context, calendarIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	items := make([]*gcal.FreeBusyRequestItem, 0, len(calendarIDs))
	for _, id := range calendarIDs {
		items = append(items, &gcal.FreeBusyRequestItem{Id: id})
	}

	res, err := c.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	return busyFromResponse(res, calendarIDs)
}

// busyFromResponse maps a FreeBusy response onto the requested calendars. The
// API reports per-calendar failures (unknown id, no access) inside the
// response while the query itself returns 200; such a calendar must fail the
// probe rather than read as empty, or a broken blocking-calendar id would
// open every slot.
func busyFromResponse(res *gcal.FreeBusyResponse, calendarIDs []string) (map[string][]models.BusyInterval, error) {
	logger := utils.GetLogger()

	out := make(map[string][]models.BusyInterval, len(calendarIDs))
	for _, id := range calendarIDs {
		cal, ok := res.Calendars[id]
		if !ok {
			return nil, fmt.Errorf("freebusy response missing calendar %s", id)
		}
		if len(cal.Errors) > 0 {
			return nil, fmt.Errorf("freebusy lookup for calendar %s failed: %s", id, cal.Errors[0].Reason)
		}

		intervals := make([]models.BusyInterval, 0, len(cal.Busy))
		for _, b := range cal.Busy {
			bs, serr := time.Parse(time.RFC3339, b.Start)
			be, eerr := time.Parse(time.RFC3339, b.End)
			if serr != nil || eerr != nil {
				logger.Warn("skipping unparseable busy interval",
					zap.String("calendarId", id), zap.String("start", b.Start), zap.String("end", b.End))
				continue
			}
			intervals = append(intervals, models.BusyInterval{Start: bs.UTC(), End: be.UTC()})
		}
		out[id] = intervals
	}
	return out, nil
}

func (c *GoogleCalendarClient) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	created, err := c.svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.UTC().Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.UTC().Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar event insert failed: %w", err)
	}
	return created.Id, nil
}

func (c *GoogleCalendarClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 410) {
			return ErrEventGone
		}
		return fmt.Errorf("calendar event delete failed: %w", err)
	}
	return nil
}
