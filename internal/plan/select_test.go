package plan_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Valitseja/doit/internal/plan"
	"github.com/Valitseja/doit/internal/task"
)

func named(tasks []*task.Task) []string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}

	return names
}

func graph(defs map[string][]string, order ...string) []*task.Task {
	tasks := make([]*task.Task, 0, len(order))
	for _, name := range order {
		tasks = append(tasks, &task.Task{Name: name, TaskDep: defs[name]})
	}

	return tasks
}

func Test_Select_Default_Is_TopLevel_Tasks_In_Declaration_Order(t *testing.T) {
	t.Parallel()

	tasks := []*task.Task{
		{Name: "b"},
		{Name: "a"},
		{Name: "a:sub", Subtask: true},
	}

	selected, err := plan.Select(tasks, nil)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"b", "a"}, named(selected)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func Test_Select_Unknown_Name_Fails(t *testing.T) {
	t.Parallel()

	_, err := plan.Select([]*task.Task{{Name: "a"}}, []string{"ghost"})
	require.ErrorIs(t, err, task.ErrNotATask)
	require.Contains(t, err.Error(), "'ghost' is not a task")
}

func Test_Select_Orders_TaskDeps_First(t *testing.T) {
	t.Parallel()

	tasks := graph(map[string][]string{
		"deploy": {"test"},
		"test":   {"compile"},
	}, "deploy", "test", "compile")

	selected, err := plan.Select(tasks, []string{"deploy"})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"compile", "test", "deploy"}, named(selected)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

// Ordering invariant: every member of a task's transitive task_dep
// closure appears strictly earlier in the plan.
func Test_Select_Ordering_Invariant_Holds(t *testing.T) {
	t.Parallel()

	tasks := graph(map[string][]string{
		"all":   {"build", "docs"},
		"build": {"compile", "link"},
		"link":  {"compile"},
		"docs":  {"compile"},
		"extra": nil,
		"linkx": {"link"},
	}, "all", "build", "link", "compile", "docs", "extra", "linkx")

	selected, err := plan.Select(tasks, nil)
	require.NoError(t, err)

	pos := map[string]int{}
	for i, tsk := range selected {
		pos[tsk.Name] = i
	}

	for _, tsk := range selected {
		for _, dep := range tsk.TaskDep {
			require.Less(t, pos[dep], pos[tsk.Name],
				"%s must come before %s", dep, tsk.Name)
		}
	}
}

func Test_Select_Deduplicates_Shared_Dependencies(t *testing.T) {
	t.Parallel()

	tasks := graph(map[string][]string{
		"a": {"common"},
		"b": {"common"},
	}, "a", "b", "common")

	selected, err := plan.Select(tasks, []string{"a", "b"})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"common", "a", "b"}, named(selected)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func Test_Select_Rejects_Cycles(t *testing.T) {
	t.Parallel()

	tasks := graph(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}, "a", "b")

	_, err := plan.Select(tasks, []string{"a"})
	require.ErrorIs(t, err, plan.ErrCycle)
}

func Test_Select_Rejects_Self_Cycle(t *testing.T) {
	t.Parallel()

	tasks := graph(map[string][]string{"a": {"a"}}, "a")

	_, err := plan.Select(tasks, nil)
	require.ErrorIs(t, err, plan.ErrCycle)
}

func Test_Select_Group_Expands_To_Members(t *testing.T) {
	t.Parallel()

	tasks := []*task.Task{
		{Name: "all", TaskDep: []string{"x", "y"}},
		{Name: "x", Actions: []task.Action{task.Cmd("true")}},
		{Name: "y", Actions: []task.Action{task.Cmd("true")}},
	}

	selected, err := plan.Select(tasks, []string{"all"})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"x", "y", "all"}, named(selected)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func Test_Expand_Walks_Group_Closure_BreadthFirst(t *testing.T) {
	t.Parallel()

	tasks := []*task.Task{
		{Name: "all", TaskDep: []string{"group-a", "x"}},
		{Name: "group-a", TaskDep: []string{"y", "z"}},
		{Name: "x", Actions: []task.Action{task.Cmd("true")}},
		{Name: "y", Actions: []task.Action{task.Cmd("true")}},
		{Name: "z", Actions: []task.Action{task.Cmd("true")}},
	}

	closure, err := plan.Expand(task.Index(tasks), "all")
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"all", "group-a", "x", "y", "z"}, closure); diff != "" {
		t.Fatalf("closure mismatch (-want +got):\n%s", diff)
	}
}

// A leaf task expands to itself only: its task_dep members are inputs,
// not group members.
func Test_Expand_Leaf_Task_Is_Itself(t *testing.T) {
	t.Parallel()

	tasks := []*task.Task{
		{Name: "leaf", TaskDep: []string{"dep"}, Actions: []task.Action{task.Cmd("true")}},
		{Name: "dep", Actions: []task.Action{task.Cmd("true")}},
	}

	closure, err := plan.Expand(task.Index(tasks), "leaf")
	require.NoError(t, err)
	require.Equal(t, []string{"leaf"}, closure)
}

// Expand must terminate on group cycles; the visited set guards it.
func Test_Expand_Terminates_On_Group_Cycle(t *testing.T) {
	t.Parallel()

	tasks := []*task.Task{
		{Name: "a", TaskDep: []string{"b"}},
		{Name: "b", TaskDep: []string{"a"}},
	}

	closure, err := plan.Expand(task.Index(tasks), "a")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, closure)
}

func Test_Expand_Unknown_Name_Fails(t *testing.T) {
	t.Parallel()

	_, err := plan.Expand(task.Index(nil), "ghost")
	require.ErrorIs(t, err, task.ErrNotATask)
}
