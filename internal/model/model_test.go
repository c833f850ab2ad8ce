package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tbl := []struct {
		inp      string
		want     Status
		wasError bool
	}{
		{"passed", StatusPassed, false},
		{" PASSED ", StatusPassed, false},
		{"ok", StatusPassed, false},
		{"failed", StatusFailed, false},
		{"Fail", StatusFailed, false},
		{"todo", StatusTodo, false},
		{"", StatusTodo, false},
		{"pending", StatusTodo, false},
		{"skipped", StatusTodo, true},
		{"pass-ish", StatusTodo, true},
	}

	for _, tt := range tbl {
		st, err := ParseStatus(tt.inp)
		if tt.wasError {
			require.ErrorIs(t, err, ErrUnknownStatus, tt.inp)
			continue
		}
		require.NoError(t, err, tt.inp)
		assert.Equal(t, tt.want, st, tt.inp)
	}
}

func TestStatus_NextCycles(t *testing.T) {
	assert.Equal(t, StatusPassed, StatusTodo.Next())
	assert.Equal(t, StatusFailed, StatusPassed.Next())
	assert.Equal(t, StatusTodo, StatusFailed.Next())
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusFailed, StatusTodo, StatusPassed}, Statuses())
	for _, st := range Statuses() {
		assert.True(t, st.Valid(), st.String())
	}
}

func TestStatus_TextAndSQL(t *testing.T) {
	b, err := json.Marshal(struct{ S Status }{StatusFailed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"S":"failed"}`, string(b))

	var out struct{ S Status }
	require.NoError(t, json.Unmarshal([]byte(`{"S":"passed"}`), &out))
	assert.Equal(t, StatusPassed, out.S)
	assert.Error(t, json.Unmarshal([]byte(`{"S":"maybe"}`), &out))

	v, err := StatusTodo.Value()
	require.NoError(t, err)
	assert.Equal(t, "todo", v)

	var st Status
	require.NoError(t, st.Scan([]byte("failed")))
	assert.Equal(t, StatusFailed, st)
	require.NoError(t, st.Scan(nil))
	assert.Equal(t, StatusTodo, st)
	assert.Error(t, st.Scan(42))

	_, err = Status(9).Value()
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, "status(9)", Status(9).String())
}

func sample() *Checklist {
	return &Checklist{Items: []Item{
		{Description: "Unit tests", Status: StatusPassed, Remark: "214 tests"},
		{Description: "Documentation", Status: StatusTodo},
		{Description: "Deploy", Status: StatusFailed, Remark: "staging down"},
	}}
}

func TestChecklist_Mutations(t *testing.T) {
	c := sample()

	require.NoError(t, c.Add("  Publish  ", StatusTodo, ""))
	assert.Equal(t, "Publish", c.Items[3].Description)
	assert.ErrorIs(t, c.Add("   ", StatusTodo, ""), ErrEmptyDescription)

	require.NoError(t, c.SetStatus(1, StatusPassed))
	require.NoError(t, c.SetRemark(1, "reviewed"))
	assert.Equal(t, Item{Description: "Documentation", Status: StatusPassed, Remark: "reviewed"}, c.Items[1])

	err := c.SetStatus(4, StatusPassed)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "have 4, got 5")

	it, err := c.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "Unit tests", it.Description)
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.Move(2, 0))
	assert.Equal(t, []string{"Publish", "Documentation", "Deploy"}, descriptions(c))

	require.NoError(t, c.Insert(3, Item{Description: "Tag"}))
	assert.Equal(t, "Tag", c.Items[3].Description)
	assert.ErrorIs(t, c.Insert(9, Item{Description: "x"}), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Move(0, 9), ErrIndexOutOfRange)
}

func TestChecklist_StatsAndVerdict(t *testing.T) {
	c := sample()
	assert.Equal(t, Stats{Passed: 1, Failed: 1, Todo: 1, Total: 3}, c.Stats())
	assert.Equal(t, VerdictBlocked, c.Verdict())

	require.NoError(t, c.SetStatus(2, StatusPassed))
	assert.Equal(t, VerdictPending, c.Verdict())

	require.NoError(t, c.SetStatus(1, StatusPassed))
	assert.Equal(t, VerdictReady, c.Verdict())

	assert.Equal(t, VerdictPending, (&Checklist{}).Verdict())
}

func TestChecklist_Reset(t *testing.T) {
	c := sample()
	c.Meta = Meta{Release: "v1.2.0", Owner: "release-team", Date: "2026-10-17"}
	c.Preamble = "# Release\n"

	next := c.Reset()
	assert.Equal(t, Meta{Owner: "release-team"}, next.Meta)
	assert.Equal(t, "# Release\n", next.Preamble)
	assert.Equal(t, descriptions(c), descriptions(next))
	for _, it := range next.Items {
		assert.Equal(t, StatusTodo, it.Status)
		assert.Empty(t, it.Remark)
	}
	assert.Equal(t, StatusPassed, c.Items[0].Status, "original untouched")
}

func TestChecklist_Clone(t *testing.T) {
	c := sample()
	cp := c.Clone()
	cp.Items[0].Status = StatusFailed
	assert.Equal(t, StatusPassed, c.Items[0].Status)
}

func descriptions(c *Checklist) []string {
	res := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		res = append(res, it.Description)
	}
	return res
}
