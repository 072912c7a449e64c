package speechcommands

import (
	"bufio"
	"crypto/sha1"
	"errors"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Set names a split of the dataset
type Set string

// The three splits
const (
	Training   Set = "training"
	Validation Set = "validation"
	Testing    Set = "testing"
)

const maxNumWavsPerClass = 1<<27 - 1

var nohash = regexp.MustCompile(`_nohash_.*$`)

// WhichSet assigns a clip to a split by hashing its file name without the
// _nohash_ suffix, so all clips of one speaker land in the same split.
func WhichSet(filename string, validationPercent, testingPercent float64) Set {
	name := nohash.ReplaceAllString(filepath.Base(filename), "")
	sum := sha1.Sum([]byte(name))

	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, big.NewInt(maxNumWavsPerClass+1))
	percentage := float64(n.Int64()) * (100.0 / maxNumWavsPerClass)

	switch {
	case percentage < validationPercent:
		return Validation
	case percentage < testingPercent+validationPercent:
		return Testing
	default:
		return Training
	}
}

// readList reads a split list of relative paths, a missing list is reported as nil
func readList(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out[filepath.ToSlash(line)] = struct{}{}
		}
	}
	return out, scanner.Err()
}

// Split partitions samples into training, validation and testing sets. The
// validation_list.txt and testing_list.txt files of dir are used when both
// exist, otherwise WhichSet decides.
func Split(dir string, samples []Sample, validationPercent, testingPercent float64) (train, validation, test []Sample, err error) {
	vlist, err := readList(filepath.Join(dir, "validation_list.txt"))
	if err != nil {
		return nil, nil, nil, err
	}
	tlist, err := readList(filepath.Join(dir, "testing_list.txt"))
	if err != nil {
		return nil, nil, nil, err
	}
	lists := vlist != nil && tlist != nil

	for _, s := range samples {
		set := Training
		if lists {
			if _, ok := vlist[s.Key()]; ok {
				set = Validation
			} else if _, ok := tlist[s.Key()]; ok {
				set = Testing
			}
		} else {
			set = WhichSet(s.Path, validationPercent, testingPercent)
		}
		switch set {
		case Validation:
			validation = append(validation, s)
		case Testing:
			test = append(test, s)
		default:
			train = append(train, s)
		}
	}
	return train, validation, test, nil
}
