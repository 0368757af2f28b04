// Command visionnet runs the feature detectors over images on disk, writing
// edge masks and keypoint overlays, or serves them over HTTP.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/matajoh/visionnet-sub000/benchmark"
	"github.com/matajoh/visionnet-sub000/detectors/canny"
	"github.com/matajoh/visionnet-sub000/detectors/fast"
	"github.com/matajoh/visionnet-sub000/detectors/harris"
	"github.com/matajoh/visionnet-sub000/images"
	"github.com/matajoh/visionnet-sub000/profiler"
	"github.com/matajoh/visionnet-sub000/render"
	"github.com/matajoh/visionnet-sub000/server"
	"github.com/matajoh/visionnet-sub000/util"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return log
}

func main() {
	var (
		input      = flag.String("input", "", "Image file or directory to process")
		outputDir  = flag.String("output", "./detections", "Output directory for masks and overlays")
		detectors  = flag.String("detectors", "canny,harris,fast", "Comma-separated detectors to run")
		serve      = flag.Bool("serve", false, "Serve the detectors over HTTP instead of processing files")
		bench      = flag.Bool("bench", false, "Run the benchmark scenarios instead of processing files")
		maxEdge    = flag.Int("max-edge", 0, "Bound the longer image edge in pixels (0 disables)")
		blurRadius = flag.Float64("blur", 0, "Denoise blur radius applied before detection (0 disables)")

		cannyLow   = flag.Float64("canny-low", float64(canny.DefaultLow), "Canny low threshold fraction")
		cannyHigh  = flag.Float64("canny-high", float64(canny.DefaultHigh), "Canny high threshold fraction")
		harrisTh   = flag.Float64("harris-threshold", float64(images.DefaultEigenSensitivity), "Harris eigenvalue threshold")
		harrisSig  = flag.Float64("harris-sigma", float64(harris.DefaultSigma), "Harris smoothing sigma")
		fastConfig = flag.String("fast-config", "", "JSON file with FAST options (overrides flags below)")
		fastTh     = flag.Int("fast-threshold", 20, "FAST intensity barrier")
		fastSeg    = flag.Int("fast-segment", 9, "FAST minimum contiguous arc length (9-12)")
		fastNMS    = flag.Bool("fast-nms", true, "FAST non-maximum suppression")
	)
	flag.Parse()

	log := newLogger()

	if *serve {
		cfg, err := server.LoadConfigFromEnv()
		if err != nil {
			log.WithError(err).Fatal("invalid server configuration")
		}
		if err := server.New(cfg, log).Run(); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
		return
	}

	if *bench {
		runBenchmarks(log, *outputDir)
		return
	}

	if *input == "" {
		log.Fatal("an input file or directory is required (-input)")
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.WithError(err).Fatal("creating output directory")
	}

	fastOpts := fast.Options{Threshold: *fastTh, SegmentLength: *fastSeg, NonMaxSuppression: *fastNMS}
	if *fastConfig != "" {
		loaded, err := fast.LoadOptions(*fastConfig)
		if err != nil {
			log.WithError(err).Fatal("loading FAST configuration")
		}
		fastOpts = loaded
	}

	loadOpts := util.LoadOptions{MaxEdge: *maxEdge, BlurRadius: *blurRadius}
	files, err := loadInput(*input, loadOpts)
	if err != nil {
		log.WithError(err).Fatal("loading input")
	}
	enabled := map[string]bool{}
	for _, name := range strings.Split(*detectors, ",") {
		enabled[strings.TrimSpace(name)] = true
	}

	timer := profiler.NewStageTimer()
	for _, file := range files {
		entry := log.WithField("image", file.Path)
		stopGrad := timer.Start("gradient")
		grad := images.SobelGradient(file.Gray)
		stopGrad()
		stem := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		var layers []render.Layer

		if enabled["canny"] {
			opts := canny.Options{Low: float32(*cannyLow), High: float32(*cannyHigh)}
			stop := timer.Start("canny")
			mask, err := canny.Detect(grad, opts)
			stop()
			if err != nil {
				entry.WithError(err).Fatal("canny detection")
			}
			maskPath := filepath.Join(*outputDir, stem+"-edges.png")
			if err := savePNG(render.MaskImage(mask), maskPath); err != nil {
				entry.WithError(err).Fatal("writing edge mask")
			}
			entry.WithFields(logrus.Fields{"edges": mask.Count(), "mask": maskPath}).Info("canny complete")
		}
		if enabled["harris"] {
			opts := harris.Options{Threshold: float32(*harrisTh), Sigma: float32(*harrisSig)}
			stop := timer.Start("harris")
			corners, err := harris.Detect(grad, opts)
			stop()
			if err != nil {
				entry.WithError(err).Fatal("harris detection")
			}
			layers = append(layers, render.Layer{Name: "harris", Points: corners})
			entry.WithField("corners", len(corners)).Info("harris complete")
		}
		if enabled["fast"] {
			stop := timer.Start("fast")
			corners, err := fast.Detect(file.Gray, fastOpts)
			stop()
			if err != nil {
				entry.WithError(err).Fatal("fast detection")
			}
			layers = append(layers, render.Layer{Name: "fast", Points: corners})
			entry.WithField("corners", len(corners)).Info("fast complete")
		}

		if len(layers) > 0 {
			overlayPath := filepath.Join(*outputDir, stem+"-overlay.png")
			if err := render.SaveOverlayPNG(file.Source, layers, overlayPath); err != nil {
				entry.WithError(err).Fatal("writing overlay")
			}
			entry.WithField("overlay", overlayPath).Info("overlay written")
		}
	}
	log.WithFields(timer.Fields()).Info("stage timings")
}

func runBenchmarks(log *logrus.Logger, outputDir string) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.WithError(err).Fatal("creating output directory")
	}
	suite := benchmark.NewSuite()
	suite.AddScenarioSet(benchmark.QuickScenarios())
	if err := suite.RunAll(context.Background()); err != nil {
		log.WithError(err).Fatal("running benchmarks")
	}
	for _, m := range suite.Results() {
		log.WithFields(logrus.Fields{
			"scenario": m.Scenario.Name,
			"fps":      m.FramesPerSecond,
			"features": m.FeatureCount,
		}).Info("benchmark complete")
	}
	resultsPath := filepath.Join(outputDir, "benchmark-results.json")
	if err := suite.SaveResults(resultsPath); err != nil {
		log.WithError(err).Fatal("writing benchmark results")
	}
	log.WithField("results", resultsPath).Info("benchmarks written")
}

func loadInput(input string, opts util.LoadOptions) ([]*util.ImageFile, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return util.LoadDirectoryImageFiles(input, opts)
	}
	file, err := util.LoadImage(input, opts)
	if err != nil {
		return nil, err
	}
	return []*util.ImageFile{file}, nil
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
