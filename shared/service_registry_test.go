package shared

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingService appends its name to a shared journal on every lifecycle
// call so tests can assert ordering.
type recordingService struct {
	name    string
	journal *[]string
	status  error
}

func (r *recordingService) Start() {
	*r.journal = append(*r.journal, "start:"+r.name)
}

func (r *recordingService) Stop() error {
	*r.journal = append(*r.journal, "stop:"+r.name)
	return nil
}

func (r *recordingService) Status() error {
	return r.status
}

func TestRegisterService_RejectsDuplicateNames(t *testing.T) {
	registry := NewServiceRegistry()
	journal := []string{}

	require.NoError(t, registry.RegisterService("db", &recordingService{name: "db", journal: &journal}))
	err := registry.RegisterService("db", &recordingService{name: "db2", journal: &journal})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestLifecycle_StartsInOrderStopsInReverse(t *testing.T) {
	registry := NewServiceRegistry()
	journal := []string{}
	for _, name := range []string{"db", "chain", "actor"} {
		require.NoError(t, registry.RegisterService(name, &recordingService{name: name, journal: &journal}))
	}

	registry.StartAll()
	registry.StopAll()

	assert.Equal(t, []string{
		"start:db", "start:chain", "start:actor",
		"stop:actor", "stop:chain", "stop:db",
	}, journal)
}

func TestStatuses_ReportsEveryService(t *testing.T) {
	registry := NewServiceRegistry()
	journal := []string{}
	broken := errors.New("disk gone")

	require.NoError(t, registry.RegisterService("db", &recordingService{name: "db", journal: &journal, status: broken}))
	require.NoError(t, registry.RegisterService("actor", &recordingService{name: "actor", journal: &journal}))

	statuses := registry.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, broken, statuses["db"])
	assert.NoError(t, statuses["actor"])
}
