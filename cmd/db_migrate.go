package cmd

import (
	"twapvault/pkg/sysversion"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		if database == nil {
			cmd.PrintErrln("no database configured")
			return
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		if err := sysversion.WriteSysVersion(cmd.Context(), providePropertyStore(database), sysversion.Current); err != nil {
			cmd.PrintErrln("write sysversion error:", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
