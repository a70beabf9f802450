package extractor

// keyChain is an ordered list of candidate payload keys for one logical
// lead field. Lookups try each spelling in order; the first hit wins.
type keyChain []string

// The lead tool's input payload is produced by model-generated tool calls,
// so the same logical field shows up under different spellings depending on
// how the workflow prompt was phrased. The chains below are tried in
// priority order.
var (
	leadMessageKeys = keyChain{"message", "Message"}
	leadEmailKeys   = keyChain{"To", "email", "Email"}
	leadSubjectKeys = keyChain{"subject", "Subject", "Sujet"}
	leadNameKeys    = keyChain{"name", "Name", "Nom"}
	leadPhoneKeys   = keyChain{"phone", "Phone", "Téléphone"}
)

// pick returns the first string value found under any of the chain's
// spellings.
func (k keyChain) pick(payload map[string]any) string {
	for _, key := range k {
		if value, ok := payload[key].(string); ok && value != "" {
			return value
		}
	}

	return ""
}

// leadConsumedKeys is the union of every spelling claimed by the fixed
// field mapping. Payload keys in this set never land in the extras bag,
// even when an earlier spelling already supplied the field.
var leadConsumedKeys = func() map[string]struct{} {
	consumed := make(map[string]struct{})

	for _, chain := range []keyChain{leadMessageKeys, leadEmailKeys, leadSubjectKeys, leadNameKeys, leadPhoneKeys} {
		for _, key := range chain {
			consumed[key] = struct{}{}
		}
	}

	return consumed
}()
