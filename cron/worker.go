package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"bookline/config"
	appointmentRepo "bookline/database/repository/appointment"
	"bookline/services/tasks"
	"bookline/utils"

	"github.com/hibiken/asynq"
	robcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(apptRepo appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(apptRepo))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask logs the reminder for delivery by the notification
// relay. An appointment cancelled after enqueue is skipped silently.
func handleReminderTask(apptRepo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		appt, err := apptRepo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			return err
		}
		if appt == nil {
			logger.Debug("skipping reminder for cancelled appointment",
				zap.String("appointmentId", p.AppointmentID))
			return nil
		}

		logger.Info("appointment reminder due",
			zap.String("appointmentId", p.AppointmentID),
			zap.String("businessId", p.BusinessID),
			zap.String("customer", p.CustomerName),
			zap.String("startLocal", p.StartLocal),
			zap.String("timezone", p.Timezone))
		return nil
	}
}

// InitCompletionSweep schedules the nightly job that transitions past booked
// appointments to completed.
func InitCompletionSweep(apptRepo appointmentRepo.AppointmentRepository) *robcron.Cron {
	c := robcron.New()
	_, err := c.AddFunc("0 3 * * *", func() {
		logger := utils.GetLogger()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := apptRepo.MarkCompletedBefore(ctx, time.Now())
		if err != nil {
			logger.Error("completion sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("completion sweep finished", zap.Int64("completed", n))
		}
	})
	if err != nil {
		log.Fatalf("failed to schedule completion sweep: %v", err)
	}
	c.Start()
	return c
}
