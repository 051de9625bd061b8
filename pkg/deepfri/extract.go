package deepfri

import (
	"github.com/tidwall/gjson"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// Models are the GO-predicting networks of a prediction, one per namespace.
// The EC model reports enzyme numbers and is not read.
var Models = []string{"cnn_mf", "cnn_bp", "cnn_cc"}

// ExtractPredictions reads go_term and go_term_score from every model of the
// given chain. Predictions below minScore and identifiers that are not GO
// terms are dropped. Duplicate terms are kept; annotation.NewSet keeps the
// highest score.
func ExtractPredictions(data []byte, chain string, minScore float64) []annotation.Entry {
	var entries []annotation.Entry
	for _, model := range Models {
		preds := gjson.GetBytes(data, gjson.Escape(chain)+"."+model+".predictions")
		preds.ForEach(func(_, p gjson.Result) bool {
			id := ontology.TermID(p.Get("go_term").String())
			score := p.Get("go_term_score")
			if !id.Valid() || score.Type != gjson.Number {
				return true
			}
			if score.Float() < minScore {
				return true
			}
			entries = append(entries, annotation.Score(id, score.Float()))
			return true
		})
	}
	return entries
}
