package circuitcraft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotIndex(t *testing.T) {
	tests := []struct {
		slot string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"2", 2},
		{"true", 0},
		{"TRUE", 0},
		{"false", 1},
		{"output_1", 0},
		{"output_2", 1},
		{"output_3", 2},
		{"output_0", -1},
		{"output_x", -1},
		{"", 0},
		{"  ", 0},
		{"left", -1},
		{"-1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotIndex(tt.slot))
		})
	}
}

func TestTakesPath(t *testing.T) {
	assert.True(t, TakesPath("output_1", true))
	assert.False(t, TakesPath("output_1", false))
	assert.False(t, TakesPath("output_2", true))
	assert.True(t, TakesPath("output_2", false))
	assert.True(t, TakesPath("0", true))
	assert.True(t, TakesPath("1", false))
	assert.True(t, TakesPath("", true))
	assert.False(t, TakesPath("", false))

	// Anything beyond the two branch slots is always followed.
	assert.True(t, TakesPath("output_3", true))
	assert.True(t, TakesPath("output_3", false))
	assert.True(t, TakesPath("whatever", false))
}

func TestBranchOf(t *testing.T) {
	tests := []struct {
		name      string
		result    any
		wantTaken bool
		wantOK    bool
	}{
		{"condition result true", NewConditionResult(true, nil, "x"), true, true},
		{"condition result false", NewConditionResult(false, nil, "x"), false, true},
		{"pointer", &ConditionResult{Result: true, ExecutionPath: "true"}, true, true},
		{"nil pointer", (*ConditionResult)(nil), false, false},
		{"map with result", map[string]any{"result": true, "executionPath": "true"}, true, true},
		{"map with only path", map[string]any{"executionPath": "true"}, true, true},
		{"map with false path", map[string]any{"executionPath": "false"}, false, true},
		{"map without path", map[string]any{"result": true}, false, false},
		{"plain value", "out", false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken, ok := branchOf(tt.result)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTaken, taken)
		})
	}
}

func TestSkipSet(t *testing.T) {
	s := newSkipSet()
	assert.True(t, s.add("b"))
	assert.True(t, s.add("a"))
	assert.False(t, s.add("b"))
	assert.True(t, s.has("a"))
	assert.False(t, s.has("c"))
	assert.Equal(t, []string{"b", "a"}, s.list())
}

func TestMarkNotTaken(t *testing.T) {
	// cond -(true)-> yes -> after
	//      -(false)-> no -> deep -> deeper
	//      -(output_3)-> always
	cw, err := NewWorkflow("wf", "").
		AddNode(node("cond", TypeIfCondition)).
		AddNode(node("yes", "x")).
		AddNode(node("after", "x")).
		AddNode(node("no", "x")).
		AddNode(node("deep", "x")).
		AddNode(node("deeper", "x")).
		AddNode(node("always", "x")).
		Connect("cond", "output_1", "yes", "input_1").
		Connect("yes", "output_1", "after", "input_1").
		Connect("cond", "output_2", "no", "input_1").
		Connect("no", "output_1", "deep", "input_1").
		Connect("deep", "output_1", "deeper", "input_1").
		Connect("cond", "output_3", "always", "input_1").
		Compile()
	require.NoError(t, err)

	s := newSkipSet()
	markNotTaken(cw, "cond", true, s)
	assert.Equal(t, []string{"no", "deep", "deeper"}, s.list())

	s = newSkipSet()
	markNotTaken(cw, "cond", false, s)
	assert.Equal(t, []string{"yes", "after"}, s.list())
}

func TestShouldSkip(t *testing.T) {
	incoming := []Connection{
		{SourceNode: "cond", SourceOutput: "output_2", TargetNode: "t"},
		{SourceNode: "plain", SourceOutput: "output_1", TargetNode: "t"},
	}

	t.Run("branch not taken", func(t *testing.T) {
		results := map[string]any{"cond": NewConditionResult(true, nil, "c")}
		skip, reason := shouldSkip(incoming, results, newSkipSet())
		assert.True(t, skip)
		assert.Contains(t, reason, "not taken")
	})

	t.Run("branch taken", func(t *testing.T) {
		results := map[string]any{"cond": NewConditionResult(false, nil, "c"), "plain": "p"}
		skip, _ := shouldSkip(incoming, results, newSkipSet())
		assert.False(t, skip)
	})

	t.Run("upstream skipped", func(t *testing.T) {
		s := newSkipSet()
		s.add("plain")
		skip, reason := shouldSkip(incoming, map[string]any{}, s)
		assert.True(t, skip)
		assert.Contains(t, reason, "plain")
	})

	t.Run("no results yet", func(t *testing.T) {
		skip, _ := shouldSkip(incoming, map[string]any{}, newSkipSet())
		assert.False(t, skip)
	})
}
