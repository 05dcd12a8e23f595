package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/contracts"
	"github.com/wonny/labtrade/internal/report"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "분석 스냅샷 계산",
	Long: `기간/거래처 필터로 분석 스냅샷을 계산해 출력합니다.

출력 항목:
- 핵심 지표 (매출, 건수, 수량, 평균, 재제작률)
- 직전 동일 기간 대비 증감률
- 기간별 추이, 거래처 랭킹, 재제작 사유

Example:
  go run ./cmd/labstat snapshot --start 2024-03-01 --end 2024-03-31
  go run ./cmd/labstat snapshot --granularity week --partner clinic-a
  go run ./cmd/labstat snapshot --output json`,
	RunE: runSnapshot,
}

var (
	filterStart       string
	filterEnd         string
	filterPartner     string
	filterGranularity string
	filterScope       string
	snapshotOutput    string
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addFilterFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "text", "output format (text|json)")
}

// addFilterFlags 스냅샷/내보내기 공용 필터 플래그
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterStart, "start", "", "range start YYYY-MM-DD (default: first day of this month)")
	cmd.Flags().StringVar(&filterEnd, "end", "", "range end YYYY-MM-DD, inclusive (default: today)")
	cmd.Flags().StringVar(&filterPartner, "partner", "", "counterparty id")
	cmd.Flags().StringVar(&filterGranularity, "granularity", "month", "day|week|month|year")
	cmd.Flags().StringVar(&filterScope, "scope", "all", "partner ranking direction (all|sent|received)")
}

func filterRequest() report.FilterRequest {
	return report.FilterRequest{
		Start:       filterStart,
		End:         filterEnd,
		Partner:     filterPartner,
		Granularity: filterGranularity,
		Scope:       filterScope,
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	q, err := filterRequest().ToQuery(d.orchestrator.Location(), time.Now())
	if err != nil {
		return err
	}

	res, err := d.orchestrator.Snapshot(ctx, d.cfg.Analytics.OwnerID, q)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	switch snapshotOutput {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text":
		printSnapshot(d.cfg.Analytics.OwnerID, res, d.orchestrator.Location())
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text|json)", snapshotOutput)
	}
}

func printSnapshot(owner string, res *analytics.Result, loc *time.Location) {
	snap := res.Snapshot
	core := snap.CoreMetrics

	lines := []string{
		"Owner     : " + owner,
		"Period    : " + contracts.ReportWindow(snap.Range, loc),
		"Records   : " + fmt.Sprintf("%d accepted / %d total", res.Report.Accepted, res.Report.Total),
	}
	if snap.CounterpartyID != "" {
		lines = append(lines, "Partner   : "+snap.CounterpartyID)
	}
	PrintHeader("Analytics Snapshot", lines...)

	fmt.Println()
	fmt.Println("📊 Core Metrics")
	PrintKeyValue("Revenue", FormatWon(core.TotalRevenue), 14)
	PrintKeyValue("Statements", strconv.Itoa(core.TotalStatements), 14)
	PrintKeyValue("Units", strconv.Itoa(core.TotalUnits), 14)
	PrintKeyValue("Avg amount", FormatWon(decimal.NewFromFloat(core.AverageAmount)), 14)
	PrintKeyValue("Avg units", strconv.FormatFloat(core.AverageUnits, 'f', 1, 64), 14)
	PrintKeyValue("Remakes", fmt.Sprintf("%d / %d items (%s)", core.RemakeCount, core.TotalItems, FormatPercent(core.RemakeRate)), 14)

	fmt.Println()
	fmt.Println("📈 Growth vs previous period")
	PrintKeyValue("Previous", contracts.ReportWindow(snap.Growth.PreviousRange, loc), 14)
	PrintKeyValue("Revenue", FormatPercent(snap.Growth.RevenueGrowth), 14)
	PrintKeyValue("Count", FormatPercent(snap.Growth.CountGrowth), 14)

	fmt.Println()
	fmt.Println("↔️  Direction")
	PrintKeyValue("Sent", fmt.Sprintf("%d / %s", snap.DirectionSplit.Sent.Count, FormatWon(snap.DirectionSplit.Sent.Revenue)), 14)
	PrintKeyValue("Received", fmt.Sprintf("%d / %s", snap.DirectionSplit.Received.Count, FormatWon(snap.DirectionSplit.Received.Revenue)), 14)

	if len(snap.PeriodSeries) > 0 {
		fmt.Println()
		fmt.Printf("🗓  Series (%s)\n", snap.Granularity)
		widths := []int{12, 14, 6, 6}
		PrintTableHeader([]string{"Period", "Revenue", "Count", "Units"}, widths)
		for _, p := range snap.PeriodSeries {
			PrintTableRow([]string{p.Period, FormatWon(p.Revenue), strconv.Itoa(p.Count), strconv.Itoa(p.Units)}, widths)
		}
	}

	if len(snap.TopPartners) > 0 {
		fmt.Println()
		fmt.Println("🏆 Top Partners")
		widths := []int{4, 20, 14, 6, 8}
		PrintTableHeader([]string{"#", "Partner", "Revenue", "Count", "Remake"}, widths)
		for i, p := range snap.TopPartners {
			PrintTableRow([]string{strconv.Itoa(i + 1), p.PartnerName, FormatWon(p.Revenue), strconv.Itoa(p.Count), FormatPercent(p.DefectRate)}, widths)
		}
	}

	if len(snap.DefectRateRanking) > 0 {
		fmt.Println()
		fmt.Println("🔧 Remake Rate Ranking")
		widths := []int{4, 20, 8, 8}
		PrintTableHeader([]string{"#", "Partner", "Items", "Rate"}, widths)
		for i, p := range snap.DefectRateRanking {
			PrintTableRow([]string{strconv.Itoa(i + 1), p.PartnerName, strconv.Itoa(p.Items), FormatPercent(p.DefectRate)}, widths)
		}
	}

	if len(snap.DefectReasons) > 0 {
		fmt.Println()
		fmt.Println("📝 Remake Reasons")
		widths := []int{24, 6, 8}
		PrintTableHeader([]string{"Reason", "Count", "Share"}, widths)
		for _, r := range snap.DefectReasons {
			PrintTableRow([]string{r.Reason, strconv.Itoa(r.Count), FormatPercent(r.Percentage)}, widths)
		}
	}

	if excluded := res.Report.ExcludedCount(); excluded > 0 {
		fmt.Println()
		PrintWarning(fmt.Sprintf("%d records excluded during normalization", excluded))
	}
	fmt.Println()
}
