package conformance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// WriteCSV writes vectors as CSV with a header row
func WriteCSV(w io.Writer, vectors []Vector) error {
	if err := gocsv.Marshal(&vectors, w); err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}
	return nil
}

// ReadCSV reads vectors written by WriteCSV
func ReadCSV(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	if err := gocsv.Unmarshal(r, &vectors); err != nil {
		return nil, fmt.Errorf("failed to read vectors: %w", err)
	}
	return vectors, nil
}

// ReadText reads the hand-maintained vector format.
//
// Format: YYYY-MM-DD HH:MM:SS eligible hours [note]
// Example: 2024-03-29 10:00:00 false 0 Viernes Santo
// Blank lines and lines starting with # are skipped.
func ReadText(r io.Reader, logger *zap.Logger) ([]Vector, error) {
	scanner := bufio.NewScanner(r)
	var vectors []Vector

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 4 {
			logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		eligible, err := strconv.ParseBool(parts[2])
		if err != nil {
			logger.Warn("Failed to parse eligible flag", zap.String("value", parts[2]), zap.Error(err))
			continue
		}

		vectors = append(vectors, Vector{
			Date:          parts[0],
			Time:          parts[1],
			Eligible:      eligible,
			EligibleHours: parts[3],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading vectors: %w", err)
	}

	return vectors, nil
}

// LoadFile reads a vector file, choosing the format from the extension
func LoadFile(path string, logger *zap.Logger) ([]Vector, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vectors file: %w", err)
	}
	defer file.Close()

	var vectors []Vector
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		vectors, err = ReadCSV(file)
	} else {
		vectors, err = ReadText(file, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Vectors loaded",
		zap.String("file", path),
		zap.Int("count", len(vectors)))

	return vectors, nil
}

// SaveFile writes vectors as CSV, creating parent directories as needed
func SaveFile(path string, vectors []Vector) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create vectors directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vectors file: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, vectors)
}
