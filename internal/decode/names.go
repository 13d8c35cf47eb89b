package decode

import (
	"fmt"
)

// DisplayNames decodes the currency label map payload:
//
//	[[["BTC","Bitcoin"],["ETH","Ethereum"],...]]
//
// When filter is non-empty, pairs whose abbreviation is not in filter are
// skipped silently. Pairs without a string abbreviation and label are
// dropped and logged. Repeated abbreviations keep the last label.
func (d *Decoder) DisplayNames(payload []byte, filter []string) (map[string]string, error) {
	groups, err := splitArray(payload)
	if err != nil {
		d.logger.Warn("label payload rejected", "err", err)
		return nil, err
	}

	allowed := make(map[string]struct{}, len(filter))
	for _, abbr := range filter {
		allowed[abbr] = struct{}{}
	}

	names := make(map[string]string)
	dropped := 0
	for gi, group := range groups {
		pairs, err := splitArray(group)
		if err != nil {
			dropped++
			d.logger.Debug("dropping label group", "err", &ElementError{Index: gi, Err: err})
			continue
		}

		for pi, raw := range pairs {
			values, err := fields(raw)
			if err != nil {
				dropped++
				d.logger.Debug("dropping label pair", "group", gi, "err", &ElementError{Index: pi, Err: err})
				continue
			}

			abbr, err := stringAt(values, IndexAbbreviation)
			if err != nil {
				dropped++
				d.logger.Debug("dropping label pair", "group", gi, "err", &ElementError{Index: pi, Err: err})
				continue
			}
			if len(allowed) > 0 {
				if _, ok := allowed[abbr]; !ok {
					continue
				}
			}

			label, err := stringAt(values, IndexLabel)
			if err != nil {
				dropped++
				d.logger.Debug("dropping label pair", "group", gi, "abbreviation", abbr, "err", &ElementError{Index: pi, Err: err})
				continue
			}
			names[abbr] = label
		}
	}

	if dropped > 0 {
		d.logger.Warn("dropped malformed label entries", "dropped", dropped)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no labels after filtering", ErrNoRecords)
	}
	return names, nil
}
