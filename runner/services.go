package runner

import (
	"log"

	"github.com/fieldcrew/statsync/internal/cache"
	"github.com/fieldcrew/statsync/internal/crm"
	"github.com/fieldcrew/statsync/internal/notify"
	"github.com/fieldcrew/statsync/internal/service"
)

// Services is the wired service layer shared by every run mode
type Services struct {
	Sync    *service.SyncService
	Reports *service.ReportService
	Stats   *service.StatsService
	Cache   cache.Cache
}

// BuildServices wires the CRM client, delivery gateways, cache and
// services on top of an open store
func BuildServices(cfg *Config, store *Store) *Services {
	fetcher := crm.NewClient(cfg.CRMBaseURL, crm.StaticToken(cfg.CRMToken))

	var email notify.EmailSender
	if cfg.EmailGatewayURL != "" {
		email = notify.NewEmailGateway(cfg.EmailGatewayURL, cfg.EmailGatewayKey)
	}

	var sms notify.SMSSender
	if cfg.SMSGatewayURL != "" {
		sms = notify.NewSMSGateway(cfg.SMSGatewayURL, cfg.SMSGatewayKey)
	}

	fanout := notify.NewFanout(email, sms)

	var c cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("warning: redis cache unavailable, continuing without: %v", err)
			c = cache.NewNoOpCache()
		} else {
			c = redisCache
		}
	} else {
		c = cache.NewNoOpCache()
	}

	syncSvc := service.NewSyncService(
		fetcher,
		store.Mappings,
		store.Employees,
		store.DailyStats,
		store.SyncRuns,
		service.SyncConfig{
			LeadReportID:        cfg.LeadReportID,
			AppointmentReportID: cfg.AppointmentReportID,
		},
		Telemetry(),
		c,
	)

	reportSvc := service.NewReportService(
		store.Employees,
		store.DailyStats,
		store.TimeClock,
		store.Inactivity,
		fanout,
		c,
	)

	statsSvc := service.NewStatsService(store.DailyStats, store.SyncRuns)

	return &Services{
		Sync:    syncSvc,
		Reports: reportSvc,
		Stats:   statsSvc,
		Cache:   c,
	}
}
