package dto

// RawRecord is one alias-keyed record exactly as the upstream snapshot
// endpoint returned it. Keys vary by endpoint generation; the normalizer owns
// the alias resolution order.
type RawRecord map[string]string

// Value returns the first non-empty value among the given alias keys.
func (r RawRecord) Value(aliases ...string) string {
	for _, k := range aliases {
		if v, ok := r[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// RawSnapshot is the untouched upstream view of one work item: the four
// output lists of the legacy customer-product endpoint.
type RawSnapshot struct {
	ContractBaseline  []RawRecord `json:"output2"`
	TechnicianStock   []RawRecord `json:"output3"`
	CustomerInstalled []RawRecord `json:"output4"`
	Removable         []RawRecord `json:"output5"`
}
