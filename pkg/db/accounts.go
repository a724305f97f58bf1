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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehmo/sovi/pkg/models"
)

const accountColumns = `
	id,
	platform,
	username,
	current_state,
	warming_day_count,
	last_warmed_at,
	last_activity_at,
	device_id,
	email_enc,
	password_enc,
	totp_secret_enc,
	claimed_by,
	claim_expires_at,
	deleted_at,
	created_at,
	updated_at`

const (
	// The inner select orders by lifecycle rank, then oldest warm first with
	// never-warmed rows ahead. SKIP LOCKED lets a concurrent claimant move on to
	// the next row instead of waiting; the lease columns keep the claim visible
	// after this statement commits.
	claimWarmCandidateSQL = `
UPDATE accounts
SET claimed_by = $1,
	claim_expires_at = $2,
	updated_at = $3
WHERE id = (
	SELECT id
	FROM accounts
	WHERE deleted_at IS NULL
	  AND platform = ANY($4::text[])
	  AND current_state = ANY($5::text[])
	  AND (last_warmed_at IS NULL OR last_warmed_at < $6)
	  AND (claimed_by IS NULL OR claim_expires_at IS NULL OR claim_expires_at < $3)
	ORDER BY
		CASE current_state
			WHEN 'created' THEN 0
			WHEN 'warming_p1' THEN 1
			WHEN 'warming_p2' THEN 2
			WHEN 'warming_p3' THEN 3
			ELSE 4
		END,
		last_warmed_at ASC NULLS FIRST,
		id
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING` + accountColumns

	completeWarmSessionSQL = `
UPDATE accounts
SET warming_day_count = $4,
	current_state = $5,
	last_warmed_at = $6,
	last_activity_at = $6,
	claimed_by = NULL,
	claim_expires_at = NULL,
	updated_at = $6
WHERE id = $1
  AND claimed_by = $2
  AND deleted_at IS NULL
  AND warming_day_count = $7
  AND (last_warmed_at IS NULL OR last_warmed_at < $3)
RETURNING` + accountColumns

	releaseClaimSQL = `
UPDATE accounts
SET claimed_by = NULL,
	claim_expires_at = NULL,
	updated_at = now()
WHERE id = $1 AND claimed_by = $2`

	countAccountsByPlatformSQL = `
SELECT platform, COUNT(*)
FROM accounts
WHERE deleted_at IS NULL
  AND platform = ANY($1::text[])
GROUP BY platform`

	insertAccountSQL = `
INSERT INTO accounts (
	id,
	platform,
	username,
	current_state,
	warming_day_count,
	last_warmed_at,
	device_id,
	email_enc,
	password_enc,
	totp_secret_enc,
	created_at,
	updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11
)
RETURNING` + accountColumns

	getAccountSQL = `SELECT` + accountColumns + `
FROM accounts
WHERE id = $1`
)

// ClaimWarmCandidate leases the best eligible account to req.DeviceID.
func (p *Postgres) ClaimWarmCandidate(ctx context.Context, req *WarmClaimRequest) (*models.Account, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx, claimWarmCandidateSQL,
		req.DeviceID,
		req.Now.Add(req.TTL),
		req.Now,
		platformStrings(req.Platforms),
		stateStrings(models.WarmableStates()),
		req.DayStart,
	)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("claim warm candidate: %w", err)
	}

	return account, nil
}

// CountAccountsByPlatform returns a count for every requested platform, zero included.
func (p *Postgres) CountAccountsByPlatform(ctx context.Context, platforms []models.Platform) (map[models.Platform]int, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, countAccountsByPlatformSQL, platformStrings(platforms))
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Platform]int, len(platforms))
	for _, platform := range platforms {
		counts[platform] = 0
	}

	for rows.Next() {
		var (
			platform string
			count    int64
		)

		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("scan account count: %w", err)
		}

		counts[models.Platform(platform)] = int(count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account counts: %w", err)
	}

	return counts, nil
}

// CompleteWarmSession applies one completed session guarded by the claim and
// the previous day count.
func (p *Postgres) CompleteWarmSession(ctx context.Context, c *WarmCompletion) (*models.Account, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	nextDay := c.PreviousDayCount + 1

	row := p.pool.QueryRow(ctx, completeWarmSessionSQL,
		c.AccountID,
		c.DeviceID,
		c.DayStart,
		nextDay,
		string(models.StateForDay(nextDay)),
		c.CompletedAt,
		c.PreviousDayCount,
	)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", ErrClaimLost, c.AccountID)
	}

	if err != nil {
		return nil, fmt.Errorf("complete warm session: %w", err)
	}

	return account, nil
}

// ReleaseClaim clears the lease if deviceID still holds it.
func (p *Postgres) ReleaseClaim(ctx context.Context, accountID, deviceID string) error {
	if err := p.ready(); err != nil {
		return err
	}

	if _, err := p.pool.Exec(ctx, releaseClaimSQL, accountID, deviceID); err != nil {
		return fmt.Errorf("release claim: %w", err)
	}

	return nil
}

// InsertAccount stores a new account, assigning an id when missing.
func (p *Postgres) InsertAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	if account == nil || account.Username == "" || !account.Platform.Valid() {
		return nil, ErrAccountRequired
	}

	id := account.ID
	if id == "" {
		id = uuid.NewString()
	}

	state := account.CurrentState
	if state == "" {
		state = models.AccountStateCreated
	}

	created := account.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	row := p.pool.QueryRow(ctx, insertAccountSQL,
		id,
		string(account.Platform),
		account.Username,
		string(state),
		account.WarmingDayCount,
		account.LastWarmedAt,
		account.DeviceID,
		nullableString(account.Credentials.EmailEnc),
		nullableString(account.Credentials.PasswordEnc),
		nullableString(account.Credentials.TOTPSecretEnc),
		created,
	)

	stored, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return stored, nil
}

// GetAccount loads one account by id.
func (p *Postgres) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	account, err := scanAccount(p.pool.QueryRow(ctx, getAccountSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		a            models.Account
		platform     string
		state        string
		emailEnc     *string
		passwordEnc  *string
		totpEnc      *string
		warmingCount int32
	)

	if err := row.Scan(
		&a.ID,
		&platform,
		&a.Username,
		&state,
		&warmingCount,
		&a.LastWarmedAt,
		&a.LastActivityAt,
		&a.DeviceID,
		&emailEnc,
		&passwordEnc,
		&totpEnc,
		&a.ClaimedBy,
		&a.ClaimExpiresAt,
		&a.DeletedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Platform = models.Platform(platform)
	a.CurrentState = models.AccountState(state)
	a.WarmingDayCount = int(warmingCount)
	a.Credentials = models.Credentials{
		EmailEnc:      derefString(emailEnc),
		PasswordEnc:   derefString(passwordEnc),
		TOTPSecretEnc: derefString(totpEnc),
	}

	return &a, nil
}
