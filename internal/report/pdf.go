package report

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PDFEngine selects the external HTML-to-PDF converter.
type PDFEngine string

const (
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineNone     PDFEngine = "none"
)

// PDFConfig holds page options for PDF conversion. The zero Engine
// triggers auto-detection; when no engine is installed the HTML is
// written next to OutputPath instead.
type PDFConfig struct {
	Engine       PDFEngine
	PageSize     string
	Orientation  string
	MarginTop    string
	MarginBottom string
	MarginLeft   string
	MarginRight  string
	OutputPath   string
}

// DefaultPDFConfig returns A4 portrait with standard margins.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:     "A4",
		Orientation:  "portrait",
		MarginTop:    "15mm",
		MarginBottom: "15mm",
		MarginLeft:   "10mm",
		MarginRight:  "10mm",
	}
}

var chromiumNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// DetectPDFEngine probes PATH for an available converter, preferring
// wkhtmltopdf over headless chromium.
func DetectPDFEngine() PDFEngine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	for _, name := range chromiumNames {
		if _, err := exec.LookPath(name); err == nil {
			return EngineChromium
		}
	}
	return EngineNone
}

// PDFSupported reports whether any conversion engine is installed.
func PDFSupported() bool {
	return DetectPDFEngine() != EngineNone
}

// WritePDF converts rendered HTML to a PDF at cfg.OutputPath. Without
// an installed engine it falls back to writing the HTML itself, with
// the extension swapped to .html.
func WritePDF(html string, cfg PDFConfig) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("pdf: output path is required")
	}

	engine := cfg.Engine
	if engine == "" || engine == EngineNone {
		engine = DetectPDFEngine()
	}

	switch engine {
	case EngineWKHTML:
		return convertWKHTML(html, cfg)
	case EngineChromium:
		return convertChromium(html, cfg)
	case EngineNone:
		return writeHTMLFallback(html, cfg.OutputPath)
	default:
		return fmt.Errorf("pdf: unsupported engine %q", engine)
	}
}

func convertWKHTML(html string, cfg PDFConfig) error {
	tmp, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	args := []string{
		"--page-size", cfg.PageSize,
		"--orientation", cfg.Orientation,
		"--margin-top", cfg.MarginTop,
		"--margin-bottom", cfg.MarginBottom,
		"--margin-left", cfg.MarginLeft,
		"--margin-right", cfg.MarginRight,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--quiet",
		tmp,
		cfg.OutputPath,
	}

	if out, err := exec.Command("wkhtmltopdf", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("pdf: wkhtmltopdf failed: %w: %s", err, out)
	}
	return nil
}

func convertChromium(html string, cfg PDFConfig) error {
	tmp, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	var bin string
	for _, name := range chromiumNames {
		if path, err := exec.LookPath(name); err == nil {
			bin = path
			break
		}
	}
	if bin == "" {
		return fmt.Errorf("pdf: chromium not found in PATH")
	}

	out, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("pdf: resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--print-to-pdf=" + out,
		"--print-to-pdf-no-header",
	}
	if strings.EqualFold(cfg.Orientation, "landscape") {
		args = append(args, "--landscape")
	}
	args = append(args, "file://"+tmp)

	if output, err := exec.Command(bin, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("pdf: chromium export failed: %w: %s", err, output)
	}
	return nil
}

func writeTempHTML(html string) (string, error) {
	f, err := os.CreateTemp("", "halalinvest-report-*.html")
	if err != nil {
		return "", fmt.Errorf("pdf: creating temp HTML: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("pdf: writing temp HTML: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func writeHTMLFallback(html, outputPath string) error {
	if strings.HasSuffix(strings.ToLower(outputPath), ".pdf") {
		outputPath = outputPath[:len(outputPath)-4] + ".html"
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("pdf: creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("pdf: writing HTML fallback: %w", err)
	}
	return nil
}
