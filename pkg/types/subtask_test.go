package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubTaskValidate(t *testing.T) {
	valid := SubTask{TaskID: "t1", Title: "step"}
	assert.NoError(t, valid.Validate())

	missingTitle := valid
	missingTitle.Title = ""
	assert.ErrorIs(t, missingTitle.Validate(), ErrInvalidTitle)

	missingTask := valid
	missingTask.TaskID = ""
	assert.ErrorIs(t, missingTask.Validate(), ErrInvalidID)
}

func TestSubTaskFromRecord(t *testing.T) {
	sub := SubTaskFromRecord(Record{
		ColID:         "s1",
		"task_id":     "t1",
		"title":       "step",
		"completed":   true,
		"order_index": int64(2),
	})
	assert.Equal(t, "t1", sub.TaskID)
	assert.True(t, sub.Completed)
	assert.Equal(t, int64(2), sub.OrderIndex)
}
