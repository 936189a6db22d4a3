package aggregate

import (
	"sort"

	"github.com/cbpsweep/cbpsweep/sweep/results"
	"github.com/cbpsweep/cbpsweep/sweep/space"
)

// MeanMetrics are arithmetic means over a group of runs.
type MeanMetrics struct {
	Runs         int     `json:"runs"`
	MPKI         float64 `json:"mpki"`
	WrongPathPKI float64 `json:"wrong_path_pki"`
	IPC          float64 `json:"ipc"`
}

// CategoryMeans are per-category and per-predictor means of one section.
type CategoryMeans struct {
	Section     results.Section                         `json:"section"`
	ByCategory  map[string]map[space.Family]MeanMetrics `json:"by_category"`
	ByPredictor map[space.Family]MeanMetrics            `json:"by_predictor"`
}

type samples struct {
	mpki, wrongPath, ipc []float64
}

func (s *samples) add(mpki, wrongPath, ipc float64) {
	s.mpki = append(s.mpki, mpki)
	s.wrongPath = append(s.wrongPath, wrongPath)
	s.ipc = append(s.ipc, ipc)
}

func (s *samples) means() MeanMetrics {
	return MeanMetrics{Runs: len(s.mpki), MPKI: mean(s.mpki), WrongPathPKI: mean(s.wrongPath), IPC: mean(s.ipc)}
}

// ComputeCategoryMeans averages MPKI, wrong-path PKI and IPC of the successful
// runs that carry metrics for sec, per (category, predictor) and per predictor.
func ComputeCategoryMeans(records []results.Record, sec results.Section) *CategoryMeans {
	byCat := map[string]map[space.Family]*samples{}
	byPred := map[space.Family]*samples{}
	for _, r := range records {
		if !r.Succeeded(sec) {
			continue
		}
		m := r.Metrics(sec)
		if byCat[r.Category] == nil {
			byCat[r.Category] = map[space.Family]*samples{}
		}
		if byCat[r.Category][r.Predictor] == nil {
			byCat[r.Category][r.Predictor] = &samples{}
		}
		if byPred[r.Predictor] == nil {
			byPred[r.Predictor] = &samples{}
		}
		byCat[r.Category][r.Predictor].add(m.MPKI, m.WrongPathPKI, m.IPC)
		byPred[r.Predictor].add(m.MPKI, m.WrongPathPKI, m.IPC)
	}

	cm := &CategoryMeans{
		Section:     sec,
		ByCategory:  make(map[string]map[space.Family]MeanMetrics, len(byCat)),
		ByPredictor: make(map[space.Family]MeanMetrics, len(byPred)),
	}
	for cat, preds := range byCat {
		cm.ByCategory[cat] = make(map[space.Family]MeanMetrics, len(preds))
		for p, s := range preds {
			cm.ByCategory[cat][p] = s.means()
		}
	}
	for p, s := range byPred {
		cm.ByPredictor[p] = s.means()
	}
	return cm
}

// Categories returns the categories present, sorted.
func (cm *CategoryMeans) Categories() []string {
	out := make([]string, 0, len(cm.ByCategory))
	for c := range cm.ByCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func sortedFamilies[V any](m map[space.Family]V) []space.Family {
	out := make([]space.Family, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
