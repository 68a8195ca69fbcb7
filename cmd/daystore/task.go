// Task commands: user-scoped helpers over the generic repository.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var (
	taskTitle    string
	taskDue      string
	taskPriority string
	taskCheckIn  string

	subTitle string
	subOrder int64
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks and subtasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new task for the current user",
	Long: `Task add creates a task owned by the current user (--user flag or
config user_id).

Example:
  daystore --user u1 task add --title "Write report" --priority high --due 2026-09-05T00:00:00Z`,
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current user's tasks",
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskSubsCmd = &cobra.Command{
	Use:   "subs <task-id>",
	Short: "List a task's subtasks in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSubs,
}

var taskSubAddCmd = &cobra.Command{
	Use:   "sub <task-id>",
	Short: "Add a subtask to a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSubAdd,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (RFC3339)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", types.PriorityMedium, "priority: low, medium, high")
	taskAddCmd.Flags().StringVar(&taskCheckIn, "check-in", types.CheckInNone, "check-in cadence: none, daily, weekly")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskSubAddCmd.Flags().StringVar(&subTitle, "title", "", "subtask title (required)")
	taskSubAddCmd.Flags().Int64Var(&subOrder, "order", 0, "order index")
	_ = taskSubAddCmd.MarkFlagRequired("title")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskSubsCmd)
	taskCmd.AddCommand(taskSubAddCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if st.UserID() == "" {
		return errors.New("no current user: pass --user or set user_id in config")
	}

	task := types.Task{
		UserID:           st.UserID(),
		Title:            taskTitle,
		Priority:         taskPriority,
		CheckInFrequency: taskCheckIn,
	}
	if taskDue != "" {
		due, err := time.Parse(time.RFC3339, taskDue)
		if err != nil {
			return fmt.Errorf("invalid --due value: %w", err)
		}
		task.DueDate = due
	}
	if err := task.Validate(); err != nil {
		return err
	}

	rec, err := st.Create(types.TasksTable, task.Record())
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if flagJSON {
		return printRecord(rec)
	}
	fmt.Println(rec.ID())
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if st.UserID() == "" {
		return errors.New("no current user: pass --user or set user_id in config")
	}

	recs, err := st.GetByFilter(types.TasksTable, "user_id", st.UserID())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if flagJSON {
		return printRecords(recs)
	}
	for _, r := range recs {
		mark := " "
		if r.Bool("completed") {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s (%s)\n", mark, r.ID(), r.String("title"), r.String("priority"))
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Update(types.TasksTable, args[0], types.Record{"completed": true})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no task with id %q", args[0])
		}
		return fmt.Errorf("complete task: %w", err)
	}
	if flagJSON {
		return printRecord(rec)
	}
	fmt.Println("done")
	return nil
}

func runTaskSubs(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.SubtasksOf(args[0])
	if err != nil {
		return fmt.Errorf("list subtasks: %w", err)
	}
	if flagJSON {
		return printRecords(recs)
	}
	for _, r := range recs {
		mark := " "
		if r.Bool("completed") {
			mark = "x"
		}
		fmt.Printf("[%s] %d  %s\n", mark, r.Int("order_index"), r.String("title"))
	}
	return nil
}

func runTaskSubAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sub := types.SubTask{
		TaskID:     args[0],
		Title:      subTitle,
		OrderIndex: subOrder,
	}
	if err := sub.Validate(); err != nil {
		return err
	}

	rec, err := st.Create(types.SubTasksTable, sub.Record())
	if err != nil {
		return fmt.Errorf("create subtask: %w", err)
	}
	if flagJSON {
		return printRecord(rec)
	}
	fmt.Println(rec.ID())
	return nil
}
