package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
	ownerID    string
	recordFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "labstat",
	Short: "labtrade - 기공소 거래명세서 분석",
	Long: `labtrade Unified CLI

기공소와 거래처 사이 거래명세서를 기간/거래처별로 집계합니다.
원본 조회 → 정규화 → 필터 → 집계 → 내보내기.

Usage:
  go run ./cmd/labstat [command]

Examples:
  go run ./cmd/labstat snapshot --start 2024-03-01 --end 2024-03-31
  go run ./cmd/labstat export --format xlsx
  go run ./cmd/labstat api
  go run ./cmd/labstat scheduler start`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("env") {
			os.Setenv("ENV", env)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "analytics YAML (default: ANALYTICS_CONFIG or built-in)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner id (default: OWNER_ID)")
	rootCmd.PersistentFlags().StringVar(&recordFile, "records", "", "JSON records file (default: RECORD_FILE)")
}
