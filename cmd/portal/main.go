package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/gyaan-apps/portal"
	"github.com/gyaan-apps/portal/cmd/portal/config"
	"github.com/gyaan-apps/portal/internal/cache"
	"github.com/gyaan-apps/portal/internal/geoip"
	"github.com/gyaan-apps/portal/internal/logger"
	"github.com/gyaan-apps/portal/internal/version"
	"github.com/gyaan-apps/portal/sso"
)

func main() {
	_ = godotenv.Load()
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	c := config.Get()
	if err := logger.Init(c.Logging.Internal); err != nil {
		log.WithError(err).Fatal("could not init logger")
	}
	log.WithField("version", version.VERSION).Info("Loaded Config")
	if redisAddr := c.Caching.RedisAddr; redisAddr != "" && !c.Caching.Disabled {
		if err := cache.UseRedisCache(
			&redis.Options{
				Addr:     redisAddr,
				Username: c.Caching.Username,
				Password: c.Caching.Password,
				DB:       c.Caching.RedisDB,
			},
		); err != nil {
			log.WithError(err).Fatal("could not init redis cache")
		}
		log.Info("Loaded Redis Cache")
	}
	if err := geoip.Init(c.Auth.GeoIPDB); err != nil {
		log.WithError(err).Fatal("could not open geoip database")
	}

	backs, err := config.LoadStorageBackends(c.Storage, c.Auth)
	if err != nil {
		log.Fatal(err)
	}

	authority := sso.NewAuthority(c.Auth.SSOSecret)
	p, err := portal.NewPortal(c.Server, authority, backs, c.Apps)
	if err != nil {
		log.Fatal(err)
	}
	log.Info("Initialized Portal")

	p.Start()
}
