package repository

import (
	"github.com/ReportMitra/citizen-client/internal/repository/postgres"
	"github.com/ReportMitra/citizen-client/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	TrackedReport postgres.TrackedReport
	Redis         *redisrepo.RedisRepository
}

// New wires the repositories. db may be nil, in which case tracked reports live in memory.
func New(db *pgxpool.Pool, rdb *redis.Client, profile string) *Repository {
	var tracked postgres.TrackedReport = newMemoryTrackedReportRepo()
	if db != nil {
		tracked = postgres.New(db).TrackedReport
	}

	return &Repository{
		TrackedReport: tracked,
		Redis:         redisrepo.New(rdb, profile),
	}
}
