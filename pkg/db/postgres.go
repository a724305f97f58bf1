/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehmo/sovi/pkg/logger"
	"github.com/ehmo/sovi/pkg/models"
)

// Postgres implements Service on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

var _ Service = (*Postgres)(nil)

// NewPostgres wraps an open pool. The pool is owned by the returned value.
func NewPostgres(pool *pgxpool.Pool, log logger.Logger) *Postgres {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Postgres{pool: pool, log: log}
}

// Close releases the pool.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}

	return nil
}

func (p *Postgres) ready() error {
	if p == nil || p.pool == nil {
		return ErrDatabaseNotInitialized
	}

	return nil
}

func platformStrings(platforms []models.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}

	return out
}

func stateStrings(states []models.AccountState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}

	return out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
