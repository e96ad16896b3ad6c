package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/todo-api/internal/model"
	"github.com/nhle/todo-api/internal/theme"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored todos, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	todos, err := s.ListTodos(cmd.Context())
	if err != nil {
		return err
	}
	if len(todos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No todos.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatTodoTable(todos))
	return nil
}

const (
	colID = iota
	colTitle
	colDescription
	colCompleted
	colCreated
)

// formatTodoTable renders todos as a bordered table.
func formatTodoTable(todos []model.Todo) string {
	rows := make([][]string, 0, len(todos))
	for _, todo := range todos {
		description := ""
		if todo.Description != nil {
			description = *todo.Description
		}
		rows = append(rows, []string{
			todo.ID,
			todo.Title,
			description,
			completedLabel(todo.Completed),
			todo.CreatedAt.Local().Format(time.DateTime),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.BorderStyle).
		Headers("ID", "TITLE", "DESCRIPTION", "DONE", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.HeaderStyle
			case col == colCompleted:
				return theme.CompletedStyle(todos[row].Completed)
			case col == colID || col == colCreated:
				return theme.MutedStyle
			default:
				return theme.CellStyle
			}
		})
	return t.String()
}

func completedLabel(completed bool) string {
	if completed {
		return "yes"
	}
	return "no"
}
