package artifact

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// scalerDoc is the on-disk scaler. JSON documents are accepted since JSON is
// a subset of YAML.
type scalerDoc struct {
	Kind  string    `koanf:"kind"`
	Mean  []float64 `koanf:"mean"`
	Min   []float64 `koanf:"min"`
	Scale []float64 `koanf:"scale"`
}

type classifierDoc struct {
	Kind      string     `koanf:"kind"`
	Coef      []float64  `koanf:"coef"`
	Intercept float64    `koanf:"intercept"`
	Threshold float64    `koanf:"threshold"`
	Nodes     []TreeNode `koanf:"nodes"`
}

// LoadScaler reads a scaler artifact. Every failure wraps ErrArtifactLoad.
func LoadScaler(path string) (Scaler, error) {
	var doc scalerDoc
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	var (
		s   Scaler
		err error
	)
	switch doc.Kind {
	case KindStandard:
		s, err = NewStandardScaler(doc.Mean, doc.Scale)
	case KindMinMax:
		s, err = NewMinMaxScaler(doc.Min, doc.Scale)
	default:
		err = fmt.Errorf("%w: unknown scaler kind %q", ErrMalformed, doc.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactLoad, path, err)
	}
	return s, nil
}

// LoadClassifier reads a classifier artifact. Every failure wraps
// ErrArtifactLoad.
func LoadClassifier(path string) (Classifier, error) {
	var doc classifierDoc
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	var (
		c   Classifier
		err error
	)
	switch doc.Kind {
	case KindLogisticRegression:
		c, err = NewLogisticRegression(doc.Coef, doc.Intercept, doc.Threshold)
	case KindDecisionTree:
		c, err = NewDecisionTree(doc.Nodes)
	default:
		err = fmt.Errorf("%w: unknown classifier kind %q", ErrMalformed, doc.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactLoad, path, err)
	}
	return c, nil
}

func decode(path string, out any) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactLoad, path, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactLoad, path, err)
	}
	return nil
}
