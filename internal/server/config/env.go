package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "USERSAPI_"

const defaultEnvFile = ".env"

// parseEnv overlays Config with USERSAPI_* environment variables.
//
// A dotenv file is loaded first: the path given by -env, or ./.env when that
// flag is absent. A missing default file is ignored, a missing explicit one
// panics. godotenv never overrides variables already set in the process
// environment.
//
// Variables:
//
//	USERSAPI_HTTP_ADDR, USERSAPI_GRPC_ADDR, USERSAPI_DATABASE_DSN,
//	USERSAPI_SECRET_KEY, USERSAPI_ACCESS_TOKEN_TTL (e.g. "30m"),
//	USERSAPI_BCRYPT_COST, USERSAPI_LOG_LEVEL, USERSAPI_LOG_FORMAT,
//	USERSAPI_S3_ROOT_USER, USERSAPI_S3_ROOT_PASSWORD, USERSAPI_S3_BUCKET,
//	USERSAPI_S3_REGION, USERSAPI_S3_BASE_ENDPOINT, USERSAPI_MAX_UPLOAD_SIZE
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlags()
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	lookupString("HTTP_ADDR", &config.EndpointAddrHTTP)
	lookupString("GRPC_ADDR", &config.EndpointAddrGRPC)
	lookupString("DATABASE_DSN", &config.DatabaseDSN)
	lookupString("SECRET_KEY", &config.SecretKey)
	lookupString("LOG_LEVEL", &config.LogLevel)
	lookupString("LOG_FORMAT", &config.LogFormat)
	lookupString("S3_ROOT_USER", &config.S3RootUser)
	lookupString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	lookupString("S3_BUCKET", &config.S3Bucket)
	lookupString("S3_REGION", &config.S3Region)
	lookupString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv(EnvPrefix + "ACCESS_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = d
	}

	if v, ok := os.LookupEnv(EnvPrefix + "BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "MAX_UPLOAD_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxUploadSize = n
	}
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}
