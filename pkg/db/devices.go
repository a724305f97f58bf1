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

const deviceColumns = `
	id,
	name,
	udid,
	model,
	os_version,
	wda_port,
	status,
	last_heartbeat_at,
	connected_since,
	created_at,
	updated_at`

const (
	listDevicesSQL = `SELECT` + deviceColumns + `
FROM devices
ORDER BY name, udid`

	listActiveDevicesSQL = `SELECT` + deviceColumns + `
FROM devices
WHERE status = 'active'
ORDER BY name, udid`

	getDeviceSQL = `SELECT` + deviceColumns + `
FROM devices
WHERE id = $1`

	registerDeviceSQL = `
INSERT INTO devices (
	id,
	name,
	udid,
	model,
	os_version,
	wda_port,
	status,
	connected_since,
	created_at,
	updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,'active',$7,$7,$7
)
ON CONFLICT (udid) DO UPDATE SET
	name = EXCLUDED.name,
	model = EXCLUDED.model,
	os_version = EXCLUDED.os_version,
	wda_port = EXCLUDED.wda_port,
	status = 'active',
	connected_since = EXCLUDED.connected_since,
	updated_at = EXCLUDED.updated_at
RETURNING` + deviceColumns

	heartbeatSQL = `
UPDATE devices
SET status = 'active',
	last_heartbeat_at = $2,
	updated_at = $2
WHERE id = $1`

	setDeviceStatusSQL = `
UPDATE devices
SET status = $2,
	updated_at = $3
WHERE id = $1`
)

// ListDevices returns every registered device.
func (p *Postgres) ListDevices(ctx context.Context) ([]*models.Device, error) {
	return p.queryDevices(ctx, listDevicesSQL)
}

// ListActiveDevices returns devices eligible for a worker loop.
func (p *Postgres) ListActiveDevices(ctx context.Context) ([]*models.Device, error) {
	return p.queryDevices(ctx, listActiveDevicesSQL)
}

func (p *Postgres) queryDevices(ctx context.Context, query string) ([]*models.Device, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device

	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}

		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	return devices, nil
}

// GetDevice loads one device by id.
func (p *Postgres) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	device, err := scanDevice(p.pool.QueryRow(ctx, getDeviceSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	return device, nil
}

// RegisterDevice inserts or refreshes a device keyed by UDID.
func (p *Postgres) RegisterDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	if device == nil || device.UDID == "" {
		return nil, ErrDeviceUDIDRequired
	}

	id := device.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := p.pool.QueryRow(ctx, registerDeviceSQL,
		id,
		device.Name,
		device.UDID,
		device.Model,
		device.OSVersion,
		device.Port(),
		time.Now().UTC(),
	)

	stored, err := scanDevice(row)
	if err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}

	return stored, nil
}

// Heartbeat marks a device active at the given instant.
func (p *Postgres) Heartbeat(ctx context.Context, id string, at time.Time) error {
	return p.execDeviceUpdate(ctx, "heartbeat", heartbeatSQL, id, at)
}

// SetDeviceStatus records a new device status.
func (p *Postgres) SetDeviceStatus(ctx context.Context, id string, status models.DeviceStatus, at time.Time) error {
	return p.execDeviceUpdate(ctx, "set device status", setDeviceStatusSQL, id, string(status), at)
}

func (p *Postgres) execDeviceUpdate(ctx context.Context, op, query, id string, args ...interface{}) error {
	if err := p.ready(); err != nil {
		return err
	}

	if id == "" {
		return ErrDeviceIDRequired
	}

	tag, err := p.pool.Exec(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w: %s", op, ErrDeviceNotFound, id)
	}

	return nil
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var (
		d       models.Device
		status  string
		wdaPort int32
	)

	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.UDID,
		&d.Model,
		&d.OSVersion,
		&wdaPort,
		&status,
		&d.LastHeartbeatAt,
		&d.ConnectedSince,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.WDAPort = int(wdaPort)
	d.Status = models.DeviceStatus(status)

	return &d, nil
}
