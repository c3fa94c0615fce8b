package ui

import (
	"fmt"
	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/samber/lo"
	"gitlab.com/aoterocom/AOBacktester/helpers"
	"gitlab.com/aoterocom/AOBacktester/models/analytics"
)

// UserInterface renders a finished backtest in the terminal: a summary
// paragraph plus the growth curves of the market and the strategy.
type UserInterface struct {
	Symbol string
	Result analytics.StrategySimulationResult
}

func (ui *UserInterface) SetResult(symbol string, result analytics.StrategySimulationResult) {
	ui.Symbol = symbol
	ui.Result = result
}

func (ui *UserInterface) Run() {
	if err := termui.Init(); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("failed to initialize termui: %v", err))
		return
	}
	defer termui.Close()

	ui.UpdateUI()

	uiEvents := termui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "q", "<C-c>":
			helpers.Logger.Infoln("Exited by keyboard interrupt")
			return
		case "<Resize>":
			ui.UpdateUI()
		}
	}
}

func (ui *UserInterface) UpdateUI() {
	width, height := termui.TerminalDimensions()

	summaryParagraph := widgets.NewParagraph()
	summaryParagraph.BorderStyle.Fg = termui.ColorYellow
	summaryParagraph.TitleStyle.Fg = termui.ColorYellow
	summaryParagraph.Block.Title = "Backtest " + ui.Symbol
	summaryParagraph.Text = fmt.Sprintf("SMA windows: (%d, %d)\n", ui.Result.FastWindow, ui.Result.SlowWindow)
	summaryParagraph.Text += fmt.Sprintf("Rows: %d\n", ui.Result.Rows())
	summaryParagraph.Text += fmt.Sprintf("[Strategy: %.2fx](fg:yellow)\n", ui.Result.AbsoluteProfit)
	summaryParagraph.Text += fmt.Sprintf("Out-performance: %.2f\n", ui.Result.RelativeProfit)
	summaryParagraph.Text += "Press q to quit"
	summaryParagraph.SetRect(0, 0, 40, 7)

	if ui.Result.Rows() < 2 {
		termui.Render(summaryParagraph)
		return
	}

	curvesPlot := widgets.NewPlot()
	curvesPlot.Block.Title = "Growth of 1 unit (market cyan, strategy yellow)"
	curvesPlot.Data = [][]float64{
		downsample(ui.Result.CumMarket, width-10),
		downsample(ui.Result.CumStrategy, width-10),
	}
	curvesPlot.LineColors = []termui.Color{termui.ColorCyan, termui.ColorYellow}
	curvesPlot.AxesColor = termui.ColorWhite
	curvesPlot.SetRect(0, 7, width, height)

	termui.Render(summaryParagraph, curvesPlot)
}

// downsample thins a curve to at most the given number of points so the
// whole backtest fits the plot width, keeping the first and last values.
func downsample(values []float64, points int) []float64 {
	if points < 2 || len(values) <= points {
		return values
	}
	return lo.Map(lo.Range(points), func(index int, _ int) float64 {
		return values[index*(len(values)-1)/(points-1)]
	})
}
