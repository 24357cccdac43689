package report

// ResolveLabel picks the bucket label for one line: the snapshot name frozen
// at data-entry time wins, then the live master-data name, then "-".
//
// Grouping downstream is exact-string and case-sensitive, so a master record
// renamed after lines were entered keeps its old snapshot label on old lines
// and fragments into a second bucket. That matches the recorded behaviour of
// the data-entry flow and is left as is.
func ResolveLabel(snapshot, live string) string {
	if snapshot != "" {
		return snapshot
	}
	if live != "" {
		return live
	}
	return "-"
}
