package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	calls     []string
	steps     int
	version   uint
	statusErr error
	upErr     error
}

func (f *fakeMigrator) WaitForDatabase() error {
	f.calls = append(f.calls, "wait")
	return nil
}

func (f *fakeMigrator) RunMigrations() error {
	f.calls = append(f.calls, "up")
	return f.upErr
}

func (f *fakeMigrator) RollbackMigrations(steps int) error {
	f.calls = append(f.calls, "down")
	f.steps = steps
	return nil
}

func (f *fakeMigrator) LoadSeeds() error {
	f.calls = append(f.calls, "seed")
	return nil
}

func (f *fakeMigrator) GetMigrationStatus() (uint, bool, error) {
	return f.version, false, f.statusErr
}

func TestRun_Up(t *testing.T) {
	m := &fakeMigrator{version: 3}
	stdout := new(bytes.Buffer)

	require.NoError(t, run([]string{"up"}, m, stdout, new(bytes.Buffer)))

	assert.Equal(t, []string{"wait", "up", "seed"}, m.calls)
	assert.Equal(t, "version=3 dirty=false\n", stdout.String())
}

func TestRun_UpFailureSkipsSeeds(t *testing.T) {
	m := &fakeMigrator{upErr: errors.New("boom")}

	err := run([]string{"up"}, m, new(bytes.Buffer), new(bytes.Buffer))

	require.Error(t, err)
	assert.Equal(t, []string{"wait", "up"}, m.calls)
}

func TestRun_DownWithSteps(t *testing.T) {
	m := &fakeMigrator{version: 1}

	require.NoError(t, run([]string{"-steps", "2", "down"}, m, new(bytes.Buffer), new(bytes.Buffer)))

	assert.Equal(t, 2, m.steps)
}

func TestRun_StatusWithoutMigrations(t *testing.T) {
	m := &fakeMigrator{statusErr: migrate.ErrNilVersion}
	stdout := new(bytes.Buffer)

	require.NoError(t, run([]string{"status"}, m, stdout, new(bytes.Buffer)))

	assert.Contains(t, stdout.String(), "no migrations applied")
}

func TestRun_InvalidUsage(t *testing.T) {
	stderr := new(bytes.Buffer)

	err := run(nil, &fakeMigrator{}, new(bytes.Buffer), stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: migrate")

	err = run([]string{"sideways"}, &fakeMigrator{}, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "sideways"`)

	err = run([]string{"-steps", "-1", "down"}, &fakeMigrator{}, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
}
