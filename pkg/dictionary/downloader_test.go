package dictionary

import (
	"context"
	"io/ioutil"
	"os"
	"testing"
)

func TestEnsureDictionary_LocalCache(t *testing.T) {
	// A cached gloss dictionary already at path should short-circuit the
	// GitHub release lookup entirely, so this test never touches the network.
	tmpFile, err := ioutil.TempFile("", "jmdict-test-*.json")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	err = EnsureDictionary(context.Background(), tmpFile.Name())
	if err != nil {
		t.Fatalf("EnsureDictionary failed with local file: %v", err)
	}
}
