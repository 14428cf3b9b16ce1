package classifier

import (
	"encoding/gob"
	"fmt"
	"os"
)

// ArtifactVersion is bumped whenever the on-disk layout or the feature
// semantics change. Loading an artifact with a different version fails.
const ArtifactVersion = 1

// VectorizerArtifact holds the trained TF-IDF vocabulary and weights.
// Read-only after load; safe for unlimited concurrent readers.
type VectorizerArtifact struct {
	Version    int
	Vocabulary map[string]int // token -> feature index
	IDF        []float64      // indexed by feature
}

// ModelArtifact holds the trained multinomial naive Bayes parameters.
type ModelArtifact struct {
	Version        int
	Classes        []string
	ClassLogPrior  []float64   // indexed by class
	FeatureLogProb [][]float64 // [class][feature]
}

// LoadVectorizer reads a gob-encoded vectorizer artifact.
func LoadVectorizer(path string) (*VectorizerArtifact, error) {
	var v VectorizerArtifact
	if err := loadGob(path, &v); err != nil {
		return nil, fmt.Errorf("loading vectorizer: %w", err)
	}
	if v.Version != ArtifactVersion {
		return nil, fmt.Errorf("vectorizer %s: version %d, want %d", path, v.Version, ArtifactVersion)
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return nil, fmt.Errorf("vectorizer %s: %d idf weights for %d vocabulary entries", path, len(v.IDF), len(v.Vocabulary))
	}
	return &v, nil
}

// LoadModel reads a gob-encoded classifier model artifact.
func LoadModel(path string) (*ModelArtifact, error) {
	var m ModelArtifact
	if err := loadGob(path, &m); err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	if m.Version != ArtifactVersion {
		return nil, fmt.Errorf("model %s: version %d, want %d", path, m.Version, ArtifactVersion)
	}
	if len(m.Classes) == 0 {
		return nil, fmt.Errorf("model %s: no classes", path)
	}
	if len(m.ClassLogPrior) != len(m.Classes) || len(m.FeatureLogProb) != len(m.Classes) {
		return nil, fmt.Errorf("model %s: parameter shape does not match %d classes", path, len(m.Classes))
	}
	return &m, nil
}

// SaveVectorizer gob-encodes a vectorizer artifact to path.
func SaveVectorizer(path string, v *VectorizerArtifact) error {
	return saveGob(path, v)
}

// SaveModel gob-encodes a model artifact to path.
func SaveModel(path string, m *ModelArtifact) error {
	return saveGob(path, m)
}

func loadGob(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return gob.NewDecoder(f).Decode(out)
}

func saveGob(path string, in any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(in); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
