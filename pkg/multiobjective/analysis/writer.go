package analysis

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/klog/v2"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
)

// Writer persists analysis results as CSV files in a directory.
type Writer struct {
	BestIndividualsPath string
	FitnessPath         string
}

// NewWriter places the two CSV files inside dir.
func NewWriter(dir, bestIndividualsFile, fitnessFile string) *Writer {
	return &Writer{
		BestIndividualsPath: filepath.Join(dir, bestIndividualsFile),
		FitnessPath:         filepath.Join(dir, fitnessFile),
	}
}

// Observe appends the generation statistics and rewrites the best
// individuals file.
func (w *Writer) Observe(ctx context.Context, generation int, population []*framework.Individual) error {
	logger := klog.FromContext(ctx)

	stats, err := FitnessStats(generation, population)
	if err != nil {
		return err
	}
	if err := w.AppendFitness(stats); err != nil {
		return fmt.Errorf("write %s: %w", w.FitnessPath, err)
	}

	best, err := BestIndividuals(population)
	if err != nil {
		return err
	}
	if err := w.WriteBestIndividuals(best); err != nil {
		return fmt.Errorf("write %s: %w", w.BestIndividualsPath, err)
	}

	logger.V(2).Info("Analyzed generation", "generation", generation, "paretoFront", len(best))
	return nil
}

// WriteBestIndividuals replaces the best individuals file with one row per
// individual.
func (w *Writer) WriteBestIndividuals(best []*framework.Individual) error {
	if len(best) == 0 {
		return framework.ErrEmptyPopulation
	}
	objectives, err := framework.Objectives(best)
	if err != nil {
		return err
	}

	f, err := os.Create(w.BestIndividualsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(bestIndividualsHeader(len(best[0].Genome.Walls), objectives)); err != nil {
		return err
	}
	for _, ind := range best {
		if err := cw.Write(bestIndividualRow(ind, objectives)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

// AppendFitness adds one row to the fitness file. The header is written only
// when the file is created.
func (w *Writer) AppendFitness(stats GenerationStats) error {
	_, err := os.Stat(w.FitnessPath)
	fresh := errors.Is(err, fs.ErrNotExist)
	if err != nil && !fresh {
		return err
	}

	f, err := os.OpenFile(w.FitnessPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
		header := []string{"Generation"}
		for _, o := range stats.Objectives {
			header = append(header, o.Name+"_Average", o.Name+"_Maximum")
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	row := []string{strconv.Itoa(stats.Generation)}
	for _, o := range stats.Objectives {
		row = append(row, formatFloat(o.Average), formatFloat(o.Maximum))
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

var wallColumns = []string{
	"Has_Ridge", "Angle", "Ridge_Height", "Ridge_Width_Top", "Ridge_Width_Bottom",
	"Ridge_Thickness_Top", "Ridge_Thickness_Bottom",
}

func bestIndividualsHeader(numWalls int, objectives []string) []string {
	header := []string{
		"Indiv_ID", "Parent1_ID", "Generation_Created",
		"Flare_Length", "Waveguide_Height", "Waveguide_Length", "Waveguide_Width",
	}
	for i := 1; i <= numWalls; i++ {
		for _, c := range wallColumns {
			header = append(header, fmt.Sprintf("WP%d_%s", i, c))
		}
	}
	return append(header, objectives...)
}

func bestIndividualRow(ind *framework.Individual, objectives []string) []string {
	g := ind.Genome
	parent := "None"
	if ind.ParentID != framework.NoParent {
		parent = strconv.FormatInt(int64(ind.ParentID), 10)
	}
	row := []string{
		strconv.FormatInt(int64(ind.ID), 10), parent, strconv.Itoa(ind.Generation),
		formatFloat(g.FlareLength), formatFloat(g.WaveguideHeight),
		formatFloat(g.WaveguideLength), formatFloat(g.WaveguideWidth),
	}
	for _, wp := range g.Walls {
		row = append(row,
			strconv.FormatBool(wp.HasRidge),
			formatFloat(wp.Angle),
			formatFloat(wp.RidgeHeight),
			formatFloat(wp.RidgeWidthTop),
			formatFloat(wp.RidgeWidthBottom),
			formatFloat(wp.RidgeThicknessTop),
			formatFloat(wp.RidgeThicknessBottom),
		)
	}
	for _, name := range objectives {
		row = append(row, formatFloat(ind.Scores[name]))
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
