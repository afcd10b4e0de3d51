package cli

import "github.com/spf13/cobra"

// changed возвращает указатель на значение флага, только если флаг задан явно.
// Так PATCH запросы отправляют лишь измененные поля.
func changed[T any](cmd *cobra.Command, name string, value T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
