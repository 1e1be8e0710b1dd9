package main

import (
	"github.com/okian/wapoints/internal/domain/model"
	"github.com/spf13/cobra"
)

func scoreCmd(flags *rootFlags) *cobra.Command {
	var (
		req             model.TotalRequest
		wind, elevation float64
	)
	cmd := &cobra.Command{
		Use:   "score <event> <performance>",
		Short: "Score a performance, optionally adding placement points",
		Example: `  wapoints score 100m 9.58
  wapoints score 100m 9.63 --wind 2.4
  wapoints score "Long Jump" 6.50 --gender women
  wapoints score 100m 9.58 --category OW --place 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.EventID, req.Performance = args[0], args[1]
			if cmd.Flags().Changed("wind") {
				req.Wind = &wind
			}
			if cmd.Flags().Changed("elevation") {
				req.Elevation = &elevation
			}

			svc, stop, err := startService(cmd)
			if err != nil {
				return err
			}
			defer stop()

			out := cmd.OutOrStdout()
			if req.Category == "" {
				res, err := svc.Calculate(cmd.Context(), req.ScoreRequest)
				if err != nil {
					return err
				}
				if flags.json {
					return printJSON(out, res)
				}
				renderScore(out, res)
				return nil
			}

			res, err := svc.CalculateTotal(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(out, res)
			}
			renderTotal(out, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Gender, "gender", "g", "", "men or women (default from config)")
	f.Float64Var(&wind, "wind", 0, "wind reading in m/s, positive is assisting")
	f.Float64Var(&elevation, "elevation", 0, "net course drop in m/km")
	f.StringVar(&req.Category, "category", "", "competition category; adds placement points")
	f.IntVar(&req.Place, "place", 0, "finishing place")
	f.StringVar(&req.Round, "round", "", "final or semifinal")
	f.IntVar(&req.SizeOfFinal, "size-of-final", 0, "number of finalists, for semifinal rounds")
	return cmd
}

func placementCmd(flags *rootFlags) *cobra.Command {
	var req model.PlacementRequest
	cmd := &cobra.Command{
		Use:   "placement <category> <place>",
		Short: "Score a finishing place in a competition category",
		Example: `  wapoints placement OW 1
  wapoints placement GL 3 --event 5000m
  wapoints placement OW 4 --round semifinal --size-of-final 8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			place, err := parsePlace(args[1])
			if err != nil {
				return err
			}
			req.Category, req.Place = args[0], place

			svc, stop, err := startService(cmd)
			if err != nil {
				return err
			}
			defer stop()

			res, err := svc.CalculatePlacement(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(cmd.OutOrStdout(), res)
			}
			renderPlacement(cmd.OutOrStdout(), res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.EventID, "event", "", "event whose placement group applies")
	f.StringVar(&req.Round, "round", "", "final or semifinal")
	f.IntVar(&req.SizeOfFinal, "size-of-final", 0, "number of finalists, for semifinal rounds")
	return cmd
}

func eventsCmd(flags *rootFlags) *cobra.Command {
	var gender string
	cmd := &cobra.Command{
		Use:   "events [id]",
		Short: "List scored events, or show one by id or alias",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, stop, err := startService(cmd)
			if err != nil {
				return err
			}
			defer stop()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				ev, err := svc.GetEvent(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if flags.json {
					return printJSON(out, ev)
				}
				renderEvents(out, []model.EventInfo{ev})
				return nil
			}

			events, err := svc.ListEvents(cmd.Context(), gender)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(out, events)
			}
			renderEvents(out, events)
			return nil
		},
	}
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "only events scored for men or women")
	return cmd
}

func categoriesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List competition categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, stop, err := startService(cmd)
			if err != nil {
				return err
			}
			defer stop()

			cats, err := svc.Categories(cmd.Context())
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(cmd.OutOrStdout(), cats)
			}
			renderCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}
