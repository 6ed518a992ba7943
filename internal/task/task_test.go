package task_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valitseja/doit/internal/task"
)

func Test_Group_Reports_Tasks_Without_Actions(t *testing.T) {
	t.Parallel()

	group := &task.Task{Name: "build", TaskDep: []string{"compile", "link"}}
	require.True(t, group.Group())

	leaf := &task.Task{Name: "compile", Actions: []task.Action{task.Cmd("true")}}
	require.False(t, leaf.Group())
}

func Test_Private_Follows_Underscore_Convention(t *testing.T) {
	t.Parallel()

	require.True(t, (&task.Task{Name: "_hidden"}).Private())
	require.False(t, (&task.Task{Name: "visible"}).Private())
}

func Test_SubtaskOf_Matches_Namespaced_Names(t *testing.T) {
	t.Parallel()

	parent := &task.Task{Name: "compile"}

	require.True(t, parent.SubtaskOf(task.SubtaskName("compile", "main")))
	require.True(t, parent.SubtaskOf("compile:util"))
	require.False(t, parent.SubtaskOf("compile"))
	require.False(t, parent.SubtaskOf("compiler:main"))
}

func Test_Index_Maps_Names_To_Tasks(t *testing.T) {
	t.Parallel()

	a := &task.Task{Name: "a"}
	b := &task.Task{Name: "b"}

	index := task.Index([]*task.Task{a, b})

	require.Len(t, index, 2)
	require.Same(t, a, index["a"])
	require.Same(t, b, index["b"])
}
