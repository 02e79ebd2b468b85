package app

import (
	"context"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/clients/evm"
	"github.com/voxhealth/voxhealth-backend/internal/clients/gcp"
	"github.com/voxhealth/voxhealth-backend/internal/clients/pinata"
	"github.com/voxhealth/voxhealth-backend/internal/clients/redis"
	"github.com/voxhealth/voxhealth-backend/internal/clients/voiceapi"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/report"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/services"
)

type Clients struct {
	Bucket   gcp.BucketService
	Pinner   services.ObjectPinner
	Ledger   services.Ledger
	VoiceAPI voiceapi.Client
	EventBus redis.EventBus
}

// wireClients builds the outward-facing clients. Optional integrations
// degrade: no REDIS_ADDR means local-only SSE, no bucket config means
// no recording archive or avatars, no LEDGER_RPC_URL means the SQL
// ledger stands in for the chain.
func wireClients(ctx context.Context, db *gorm.DB, log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	var c Clients

	if bucket, err := gcp.NewBucketService(log); err != nil {
		log.Warn("Bucket service unavailable (recordings and avatars disabled)", "error", err)
	} else {
		c.Bucket = bucket
	}

	if pinner, err := pinata.NewClient(log); err != nil {
		log.Warn("Pinata client unavailable (report registration disabled)", "error", err)
	} else {
		c.Pinner = pinner
	}

	if strings.TrimSpace(os.Getenv("LEDGER_RPC_URL")) != "" {
		if ledger, err := evm.NewLedger(ctx, log); err != nil {
			log.Error("EVM ledger unavailable; refusing SQL fallback since a chain was configured", "error", err)
		} else {
			c.Ledger = ledger
		}
	} else {
		log.Info("No LEDGER_RPC_URL configured; using SQL ledger")
		c.Ledger = report.NewSQLLedger(db, log)
	}

	if voiceClient, err := voiceapi.NewClient(log); err != nil {
		log.Warn("Voice analysis client unavailable (analysis endpoint disabled)", "error", err)
	} else {
		c.VoiceAPI = voiceClient
	}

	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		if bus, err := redis.NewEventBus(log); err != nil {
			log.Warn("Redis event bus unavailable (events stay local)", "error", err)
		} else {
			c.EventBus = bus
		}
	}

	return c
}
