package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3data/ettj/pkg/config"
	"github.com/b3data/ettj/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
}

func (j *fakeJob) Name() string              { return j.name }
func (j *fakeJob) Schedule() string          { return j.schedule }
func (j *fakeJob) Run(context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestAddJob(t *testing.T) {
	s := New(testLogger())

	job := &fakeJob{name: "collect", schedule: "0 0 20 * * MON-FRI"}
	require.NoError(t, s.AddJob(job))

	assert.Equal(t, []string{"collect"}, s.GetAllJobs())

	history, err := s.GetJobHistory("collect")
	require.NoError(t, err)
	assert.Empty(t, history.Results)
}

func TestAddJob_Duplicate(t *testing.T) {
	s := New(testLogger())

	job := &fakeJob{name: "collect", schedule: "0 0 20 * * MON-FRI"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&fakeJob{name: "collect", schedule: "0 0 21 * * *"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(testLogger())

	err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron spec"})
	require.Error(t, err)
}

func TestRunJob_Unknown(t *testing.T) {
	s := New(testLogger())

	err := s.RunJob("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
