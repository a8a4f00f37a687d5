package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]
	aggressive := false
	seed := int64(1)
	budget := int64(0)

	for _, arg := range args {
		switch {
		case arg == "--aggressive" || arg == "-a":
			aggressive = true
		case strings.HasPrefix(arg, "--seed="):
			n, err := strconv.ParseInt(strings.TrimPrefix(arg, "--seed="), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
		case strings.HasPrefix(arg, "--budget="):
			n, err := strconv.ParseInt(strings.TrimPrefix(arg, "--budget="), 10, 64)
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "Error: invalid budget: %s\n", strings.TrimPrefix(arg, "--budget="))
				os.Exit(1)
			}
			budget = n
		case arg == "--help" || arg == "-h":
			printHelp()
			os.Exit(0)
		case arg == "--version" || arg == "-v":
			fmt.Printf("heaptop %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		default:
			printUsage()
			os.Exit(1)
		}
	}

	m := NewModel(aggressive, seed, budget)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: heaptop [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'heaptop --help' for more information.\n")
}

func printHelp() {
	fmt.Println("heaptop - Live view of a heapkit runtime under churn")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  heaptop [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI that drives a synthetic")
	fmt.Println("  allocation workload and shows the heap and collector reacting")
	fmt.Println("  to it in real time: live objects, accounted bytes, allocation")
	fmt.Println("  debt against the pacing threshold, collection phase and a log")
	fmt.Println("  of completed cycles.")
	fmt.Println()
	fmt.Println("  Controls:")
	fmt.Println("    space       Pause/resume the workload")
	fmt.Println("    +/-         Churn faster/slower")
	fmt.Println("    s           Run one collection step")
	fmt.Println("    g           Run a full collection")
	fmt.Println("    ↑/k, ↓/j    Scroll the cycle log")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -a, --aggressive  Collect fully before every construction")
	fmt.Println("      --seed=N      Workload random seed (default 1)")
	fmt.Println("      --budget=N    Byte budget for the heap; exhausting it even")
	fmt.Println("                    after an emergency collection ends the workload")
	fmt.Println("                    on an error screen (0 = unlimited)")
	fmt.Println("  -h, --help        Show this help message")
	fmt.Println("  -v, --version     Show version information")
	fmt.Println()
	fmt.Println("For batch runs and JSON reports, use the 'heapstress' command instead.")
}
