package benchmarks

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

const (
	Name = "Relevance"

	// ObjectiveFeatureNumber is the negated number of selected features.
	ObjectiveFeatureNumber = "FN"
	// ObjectiveScore is the saturating relevance score of the subset.
	ObjectiveScore = "AUC"
)

// Relevance is a synthetic feature selection problem used to test the
// search without training classifiers. Every feature carries a hidden
// relevance weight w in [0, maxWeight) and a subset scores
//
//	1 - prod(1 - w_i)
//
// over its features, so adding features always helps, with diminishing
// returns. Paired with the feature count, the true Pareto front is made of
// the k most relevant features for every k.
type Relevance struct {
	classIndex int
	// logs[i] = log(1 - w_i), zero for the class attribute.
	logs []float64

	// mask is scratch space reused between evaluations, which is why
	// concurrent users need their own clone.
	mask []float64
}

var _ framework.CloneableEvaluator = &Relevance{}

const maxWeight = 0.5

func NewRelevance(numAttributes, classIndex int, seed uint64) *Relevance {
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	logs := make([]float64, numAttributes)
	for i := range logs {
		if i == classIndex {
			continue
		}
		logs[i] = math.Log1p(-maxWeight * rng.Float64())
	}
	return &Relevance{
		classIndex: classIndex,
		logs:       logs,
		mask:       make([]float64, numAttributes),
	}
}

func (p *Relevance) Name() string {
	return Name
}

// Weights returns the hidden relevance of every attribute.
func (p *Relevance) Weights() []float64 {
	w := make([]float64, len(p.logs))
	for i, l := range p.logs {
		w[i] = -math.Expm1(l)
	}
	return w
}

func (p *Relevance) Evaluate(ctx context.Context, subset framework.Chromosome, objectives []string) (framework.ObjectiveVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if subset.Len() != len(p.logs) {
		return nil, fmt.Errorf("subset covers %d attributes, problem has %d", subset.Len(), len(p.logs))
	}

	for i := range p.mask {
		p.mask[i] = 0
		if subset.Get(i) {
			p.mask[i] = 1
		}
	}
	return p.values(floats.Sum(p.mask), floats.Dot(p.mask, p.logs), objectives)
}

func (p *Relevance) values(count, logMiss float64, objectives []string) (framework.ObjectiveVector, error) {
	values := make(framework.ObjectiveVector, len(objectives))
	for i, name := range objectives {
		switch strings.ToUpper(name) {
		case ObjectiveFeatureNumber:
			values[i] = -count
		case ObjectiveScore:
			values[i] = -math.Expm1(logMiss)
		default:
			return nil, fmt.Errorf("unknown objective %q", name)
		}
	}
	return values, nil
}

func (p *Relevance) Clone() (framework.Evaluator, error) {
	return &Relevance{
		classIndex: p.classIndex,
		logs:       p.logs,
		mask:       make([]float64, len(p.logs)),
	}, nil
}

// TrueParetoFront returns the objective vectors of the optimal subset of
// every size, in the order of the given objectives.
func (p *Relevance) TrueParetoFront(objectives []string) ([]framework.ObjectiveVector, error) {
	features := make([]int, 0, len(p.logs))
	for i := range p.logs {
		if i != p.classIndex {
			features = append(features, i)
		}
	}
	// Most relevant first, i.e. most negative log(1 - w)
	sort.SliceStable(features, func(i, j int) bool {
		return p.logs[features[i]] < p.logs[features[j]]
	})

	points := make([]framework.ObjectiveVector, 0, len(features))
	logMiss := 0.0
	for k, f := range features {
		logMiss += p.logs[f]
		point, err := p.values(float64(k+1), logMiss, objectives)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}
