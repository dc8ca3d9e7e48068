package valkeystore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"transcript-insights-api/utils"

	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/valkeycompat"
	"go.uber.org/zap"
)

var Ctx = context.Background()
var Client valkeycompat.Cmdable
var RawClient valkey.Client

// Configured reports whether cache settings are present. The cache and the
// re-analysis pub/sub channel are both optional.
func Configured() bool {
	return os.Getenv("VALKEY_HOST") != ""
}

func InitValkey(logger *zap.Logger) {
	host := utils.MustGetEnv("VALKEY_HOST")
	port := utils.GetEnvOrDefault("VALKEY_PORT", "6379")

	var vk valkey.Client
	var err error

	if os.Getenv("VALKEY_USE_SENTINEL") == "true" {
		sentinels := splitCSV(utils.MustGetEnv("VALKEY_SENTINEL_ADDRESS"))
		masterName := utils.GetEnvOrDefault("VALKEY_SENTINEL_MASTER_NAME", "mymaster")

		logger.Info("Initializing result cache with sentinel configuration")

		vk, err = valkey.NewClient(valkey.ClientOption{
			InitAddress: sentinels,
			Sentinel: valkey.SentinelOption{
				MasterSet: masterName,
			},
		})
	} else {
		logger.Info("Initializing result cache")

		vk, err = valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%s", host, port)},
		})
	}

	if err != nil {
		panic(err)
	}

	RawClient = vk
	Client = valkeycompat.NewAdapter(vk)
	logger.Info("Result cache initialized successfully")
}

func splitCSV(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
