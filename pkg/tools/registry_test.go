package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	desc Descriptor
}

func (f fakeTool) Describe() Descriptor { return f.desc }

func (f fakeTool) Validate(inputs map[string]any) error { return ValidateInputs(f.desc, inputs) }

func (f fakeTool) Execute(ctx context.Context, inputs map[string]any) Result {
	return Ok("ok")
}

func newFake(id string) fakeTool {
	return fakeTool{desc: Descriptor{ID: id, Name: id, Category: CategoryHealth, Description: "fake"}}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newFake("a")))
	require.NoError(t, r.Register(newFake("b")))
	assert.Equal(t, 2, r.Count())

	err := r.Register(newFake("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_RegisterRejectsEmptyID(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(fakeTool{}))
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFake("a")))

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Describe().ID)

	// repeated lookups see the same tool
	again, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_ListEnabledKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(newFake(id)))
	}

	menu := r.ListEnabled()
	require.Len(t, menu, 3)
	assert.Equal(t, "zeta", menu[0].ID)
	assert.Equal(t, "alpha", menu[1].ID)
	assert.Equal(t, "mid", menu[2].ID)
}

func TestValidateInputs(t *testing.T) {
	desc := Descriptor{
		ID: "probe",
		Inputs: []InputSpec{
			{Name: "service", Type: TypeString, Required: true},
			{Name: "port", Type: TypeInteger},
			{Name: "secure", Type: TypeBoolean},
			{Name: "threshold", Type: TypeFloat},
		},
	}

	tests := []struct {
		name    string
		inputs  map[string]any
		wantErr string
	}{
		{
			name:    "missing required",
			inputs:  map[string]any{"port": 8080},
			wantErr: `tool probe: input "service": required input missing`,
		},
		{
			name:   "required only",
			inputs: map[string]any{"service": "checkout"},
		},
		{
			name:   "json numbers accepted as integers",
			inputs: map[string]any{"service": "checkout", "port": float64(8080)},
		},
		{
			name:    "fractional number rejected as integer",
			inputs:  map[string]any{"service": "checkout", "port": 80.5},
			wantErr: `tool probe: input "port": expected integer, got float64`,
		},
		{
			name:    "wrong type for bool",
			inputs:  map[string]any{"service": "checkout", "secure": "yes"},
			wantErr: `tool probe: input "secure": expected boolean, got string`,
		},
		{
			name:   "explicit nil skips the type check",
			inputs: map[string]any{"service": "checkout", "port": nil},
		},
		{
			name:   "unknown extras are allowed",
			inputs: map[string]any{"service": "checkout", "verbose": true},
		},
		{
			name:   "float accepts integral values",
			inputs: map[string]any{"service": "checkout", "threshold": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(desc, tt.inputs)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
