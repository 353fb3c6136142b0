package factory

import (
	"github.com/rs/zerolog"

	"github.com/dineguide/dineguide/internal/config"
	"github.com/dineguide/dineguide/internal/events"
)

// busBuffer is the in-process queue length; events beyond it are dropped with a warning.
const busBuffer = 256

// NewEvents returns a Kafka publisher when brokers are configured. Otherwise
// it returns an in-process bus, which the caller should consume.
func NewEvents(cfg *config.Config, log zerolog.Logger) (events.Publisher, *events.Bus) {
	if len(cfg.KafkaBrokers) > 0 {
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing change events to kafka")
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	}
	bus := events.NewBus(busBuffer)
	log.Info().Msg("publishing change events to in-process bus")
	return bus, bus
}
