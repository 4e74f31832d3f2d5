package app

import (
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/api/server"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/entitlement"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/eventlog"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/ledger"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/statistics"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/webhook"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/platform/db"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/config"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	payment.Module,
	ledger.Module,
	eventlog.Module,
	webhook.Module,
	entitlement.Module,
	statistics.Module,
)
