// Command inspect runs the forensic analyzers against a local file and
// prints the verdict, without needing the HTTP services.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/iconidentify/aidentify/internal/analysis"
	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/domain"
	"github.com/iconidentify/aidentify/internal/sniff"
	"github.com/iconidentify/aidentify/pkg/ffmpeg"
)

func main() {
	cascadePath := flag.String("cascade", "", "Path to face cascade file (optional)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <media-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(logger)

	cfg := config.AnalysisConfig{
		JPEGQuality: 90,
		BlurSigma:   1.2,
		MaxFrames:   8,
	}

	var prober *ffmpeg.Prober
	if p, err := ffmpeg.New(); err == nil {
		prober = p
	} else {
		logger.Warn("ffmpeg not found, video analysis unavailable", "error", err)
	}

	var faces *analysis.FaceCounter
	if *cascadePath != "" {
		fc, err := analysis.NewFaceCounter(*cascadePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load cascade: %v\n", err)
			os.Exit(1)
		}
		faces = fc
	}

	result, kind, err := inspect(path, cfg, prober, faces)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	printResult(path, kind, result)
	if result.Verdict == domain.VerdictInconclusive && result.Confidence == 0.0 {
		os.Exit(1)
	}
}

func inspect(path string, cfg config.AnalysisConfig, prober *ffmpeg.Prober, faces *analysis.FaceCounter) (domain.VerdictResult, domain.MediaKind, error) {
	var sniffProber sniff.VideoProber
	if prober != nil {
		sniffProber = prober
	}
	kind := sniff.New(sniffProber).Detect(context.Background(), path)

	switch kind {
	case domain.MediaImage:
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.VerdictResult{}, kind, fmt.Errorf("read file: %w", err)
		}
		return analysis.NewImageAnalyzer(cfg).Analyze(data), kind, nil
	case domain.MediaVideo:
		if prober == nil {
			return domain.VerdictResult{}, kind, fmt.Errorf("video analysis requires ffmpeg on PATH")
		}
		return analysis.NewVideoAnalyzer(cfg, prober, faces).Analyze(context.Background(), path), kind, nil
	default:
		return domain.Inconclusive(domain.EvidenceItem{Label: "File", Value: "Unsupported"}), kind, nil
	}
}

func printResult(path string, kind domain.MediaKind, result domain.VerdictResult) {
	bold := color.New(color.Bold)
	bold.Printf("%s", path)
	fmt.Printf(" (%s)\n", kind)

	verdictColor := color.New(color.FgYellow)
	switch result.Verdict {
	case domain.VerdictLikelyAI:
		verdictColor = color.New(color.FgRed, color.Bold)
	case domain.VerdictLikelyReal:
		verdictColor = color.New(color.FgGreen, color.Bold)
	}

	fmt.Printf("  verdict:    ")
	verdictColor.Printf("%s\n", result.Verdict)
	fmt.Printf("  confidence: %.2f\n", result.Confidence)

	fmt.Println("  evidence:")
	faint := color.New(color.Faint)
	for _, item := range result.Evidence {
		faint.Printf("    %-20s", item.Label)
		fmt.Printf(" %s\n", item.Value)
	}
}
