package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskdeck/internal/model"
	"taskdeck/internal/paging"
	"taskdeck/internal/render"
	"taskdeck/internal/store"
)

var (
	tasksPage     int
	tasksLimit    int
	tasksPriority string
	tasksAll      bool
	tasksFormat   string
	tasksNoColor  bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Browse tasks page by page",
	Long: `Examples:
	taskdeck tasks                     # first page
	taskdeck tasks --page 3            # jump to a page
	taskdeck tasks --all               # accumulate every page
	taskdeck tasks --priority high     # filter by priority`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if tasksLimit <= 0 {
			tasksLimit = cfg.PageSize
		}

		var priority model.Priority
		if tasksPriority != "" {
			priority = model.ParsePriority(tasksPriority)
		}

		fetch := func(ctx context.Context, page, size int) (paging.Page, error) {
			tasks, total, err := st.QueryTasks(ctx, store.Query{
				Limit:    size,
				Skip:     (page - 1) * size,
				Priority: priority,
			})
			if err != nil {
				return paging.Page{}, err
			}
			totalPages := (total + size - 1) / size
			return paging.Page{
				Tasks:      tasks,
				Number:     page,
				TotalCount: total,
				TotalPages: totalPages,
				HasMore:    page < totalPages,
			}, nil
		}

		pager := paging.New(fetch, tasksLimit)
		if tasksAll {
			for {
				if err := pager.LoadNext(cmd.Context()); err != nil {
					return err
				}
				if !pager.HasMore() {
					break
				}
			}
		} else {
			if err := pager.LoadPage(cmd.Context(), tasksPage); err != nil {
				return err
			}
		}

		renderCfg := render.DefaultConfig()
		renderCfg.Location = cfg.Location()
		if tasksNoColor {
			renderCfg.Color = false
		}
		if tasksFormat != "" {
			renderCfg.Format = render.Format(tasksFormat)
		}

		out, err := render.New(renderCfg).TaskList(
			pager.Tasks(), pager.Current(), pager.TotalPages(), pager.Total())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	tasksCmd.Flags().IntVar(&tasksPage, "page", 1, "Page number to show")
	tasksCmd.Flags().IntVar(&tasksLimit, "limit", 0, "Tasks per page (default from config)")
	tasksCmd.Flags().StringVar(&tasksPriority, "priority", "", "Filter by priority: high, normal, low")
	tasksCmd.Flags().BoolVar(&tasksAll, "all", false, "Load every page instead of one")
	tasksCmd.Flags().StringVar(&tasksFormat, "format", "default", "Output format: default, json")
	tasksCmd.Flags().BoolVar(&tasksNoColor, "no-color", false, "Disable colored output")
}
