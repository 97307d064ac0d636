package wishlist

import (
	"os"

	"github.com/gocarina/gocsv"
)

// readSnapshot restores records from the flat csv snapshot. Missing
// and malformed files both surface as errors, the caller treats either
// as "no snapshot".
func readSnapshot(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	err = gocsv.UnmarshalFile(f, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// writeSnapshot overwrites the snapshot with the given records.
func writeSnapshot(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&records, f)
}
