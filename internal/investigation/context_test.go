package investigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

func TestContext_AppendAssignsSequentialIndexes(t *testing.T) {
	c := NewContext("why is checkout slow")

	first := c.Append(ActionRecord{Tool: "prometheus_query", Result: tools.Ok("vector")})
	second := c.Append(ActionRecord{Tool: "k8s_logs", Result: tools.Fail("no pods")})

	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 2, c.Len())

	snap := c.Snapshot()
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "prometheus_query", snap.Records[0].Tool)
	assert.Equal(t, "k8s_logs", snap.Records[1].Tool)
	assert.False(t, snap.Records[1].Result.Success)
}

func TestContext_SnapshotIsACopy(t *testing.T) {
	c := NewContext("goal")
	c.Append(ActionRecord{Tool: "a", Result: tools.Ok(1)})

	snap := c.Snapshot()
	snap.Records[0].Tool = "mutated"
	snap.Records = append(snap.Records, ActionRecord{Tool: "extra"})

	fresh := c.Snapshot()
	require.Len(t, fresh.Records, 1)
	assert.Equal(t, "a", fresh.Records[0].Tool)
}

func TestContext_StatusTransitionIsOneWay(t *testing.T) {
	c := NewContext("goal")
	assert.Equal(t, StatusInProgress, c.Status())

	require.NoError(t, c.SetStatus(StatusCompleted))
	assert.Equal(t, StatusCompleted, c.Status())

	err := c.SetStatus(StatusFailed)
	assert.ErrorIs(t, err, ErrAlreadyTerminated)
	assert.Equal(t, StatusCompleted, c.Status())
}

func TestContext_Findings(t *testing.T) {
	c := NewContext("goal")
	assert.Empty(t, c.Findings())

	c.UpdateFindings("latency spike correlates with deploy abc123")
	assert.Equal(t, "latency spike correlates with deploy abc123", c.Findings())
	assert.Equal(t, "latency spike correlates with deploy abc123", c.Snapshot().Findings)
}

func TestContext_StartedAt(t *testing.T) {
	before := time.Now()
	c := NewContext("goal")
	assert.WithinDuration(t, before, c.StartedAt(), time.Second)
}
