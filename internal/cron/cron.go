package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	cron_config "github.com/pawtrail/mailroom/internal/cron/config"
	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

// GroupMailroom is the group for mailroom maintenance jobs
const GroupMailroom = "mailroom"

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupMailroom: new(sync.Mutex),
	},
}

type CronManager struct {
	log    logger.Logger
	cron   *cronv3.Cron
	stopCh chan struct{}
	jobIDs map[string]cronv3.EntryID
	repos  *repository.Repositories
}

func NewCronManager(log logger.Logger, repos *repository.Repositories) *CronManager {
	return &CronManager{
		log:    log,
		stopCh: make(chan struct{}),
		jobIDs: make(map[string]cronv3.EntryID),
		repos:  repos,
	}
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	if cronConfig.CronScheduleFailStaleEmails != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleFailStaleEmails, func() {
			jobLocks.locks[GroupMailroom].Lock()
			defer jobLocks.locks[GroupMailroom].Unlock()
			cm.failStalePendingEmails(cronConfig.StaleEmailMaxAgeMinutes)
		})
		if err != nil {
			cm.log.Fatalf("Could not add stale email cron job: %v", err)
		}
		cm.jobIDs["fail_stale_emails"] = id
		cm.log.Infof("Registered stale email sweeper with schedule: %s", cronConfig.CronScheduleFailStaleEmails)
	}

	if cronConfig.CronScheduleAuditPurge != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleAuditPurge, func() {
			jobLocks.locks[GroupMailroom].Lock()
			defer jobLocks.locks[GroupMailroom].Unlock()
			cm.purgeThreadDeleteAudit(cronConfig.AuditRetentionDays)
		})
		if err != nil {
			cm.log.Fatalf("Could not add audit purge cron job: %v", err)
		}
		cm.jobIDs["audit_purge"] = id
		cm.log.Infof("Registered audit purge job with schedule: %s", cronConfig.CronScheduleAuditPurge)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Seconds field enabled, jobs skip rather than pile up
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) failStalePendingEmails(maxAgeMinutes int) {
	span, ctx := tracing.StartTracerSpan(context.Background(), "CronManager.failStalePendingEmails")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	count, err := cm.repos.ProcessedEmailRepository.FailStalePending(ctx, maxAgeMinutes)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to sweep stale pending emails: %v", err)
		return
	}
	if count > 0 {
		cm.log.Infof("Marked %d stale pending emails as failed", count)
	}
}

func (cm *CronManager) purgeThreadDeleteAudit(retentionDays int) {
	span, ctx := tracing.StartTracerSpan(context.Background(), "CronManager.purgeThreadDeleteAudit")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	cutoff := utils.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	count, err := cm.repos.ThreadDeleteAuditRepository.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to purge thread delete audit: %v", err)
		return
	}
	if count > 0 {
		cm.log.Infof("Purged %d thread delete audit rows", count)
	}
}
