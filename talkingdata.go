// Package talkingdata is a single-run exploratory analysis of a movie
// ratings dataset.
//
// Usage:
//
//	import "github.com/spektr-org/talkingdata/pipeline"
//
//	summary, err := pipeline.Run(ctx, pipeline.Options{
//	    DataPath: "rotten_tomatoes_movies.csv",
//	    Title:    "Avengers: Endgame",
//	    Genre:    "Action",
//	}, pipeline.Deps{Out: os.Stdout, Pauser: report.NoPause{}})
//
// The stages (load → filter → describe → report → visualize) live in their
// own packages so each can be used and tested on its own:
//
//	helpers   CSV loader
//	engine    record views, filters, statistics, chart builders
//	report    narrative commentary and the "continue" gate
//	render    PNG / CSV output of chart configs
//	config    viper-backed run configuration
//	pipeline  the orchestrating entry point
package talkingdata
