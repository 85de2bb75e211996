package service

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// KeepAlive pings the service's own heartbeat endpoint on an interval
// so free-tier hosts don't put the instance to sleep between visits
func KeepAlive() {
	if !viper.GetBool("keepalive.enabled") {
		return
	}

	interval := viper.GetDuration("keepalive.interval")
	url := viper.GetString("keepalive.url")

	zap.L().Debug("Keepalive loop attached",
		zap.Duration("tick_every", interval),
		zap.String("url", url))

	client := &http.Client{Timeout: 30 * time.Second}

	go func() {
		ticker := time.NewTicker(interval)

		for range ticker.C {
			req, err := http.NewRequest(http.MethodHead, url, nil)
			if err != nil {
				zap.L().Error("Failed to build keepalive request", zap.Error(err))
				return
			}

			resp, err := client.Do(req)
			if err != nil {
				zap.L().Warn("Keepalive ping failed", zap.Error(err))
				continue
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				zap.L().Warn("Keepalive ping returned unexpected status", zap.Int("status", resp.StatusCode))
			}
		}
	}()
}
