package vocab

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/theni/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ear", "ear"},
		{"  NOSE\t", "nose"},
		{"", ""},
		{"காது", "காது"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"ear.png", "ear"},
		{"Nose.JPG", "nose"},
		{" Eye .jpeg", "eye"},
		{"hand.gif", ""},
		{"README", ""},
		{"leg.png.bak", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageKey(tt.name))
		})
	}
}

func TestReconcileExample(t *testing.T) {
	lib := Reconcile([]string{"Ear", "Nose", "Eye"}, []string{"ear.png", "nose.jpg"})

	assert.Equal(t, []string{"ear", "nose"}, lib.Words())
	assert.Equal(t, map[string]string{"ear": "ear.png", "nose": "nose.jpg"}, lib.Mapping())
	assert.Equal(t, []string{"eye"}, lib.Missing())
	assert.True(t, lib.Contains(" EAR "))
	assert.False(t, lib.Contains("eye"))
}

func TestReconcileIsIntersection(t *testing.T) {
	tests := []struct {
		name   string
		vocab  []string
		images []string
	}{
		{"empty", nil, nil},
		{"no images", []string{"ear", "nose"}, nil},
		{"no vocab", nil, []string{"ear.png"}},
		{"case and whitespace", []string{" HEAD", "hand  ", "Leg"}, []string{"head.PNG", " Hand.jpeg", "leg.txt"}},
		{"duplicates", []string{"ear", "Ear", "EAR "}, []string{"ear.png"}},
		{"blank entries", []string{"", "  ", "body"}, []string{"body.jpg", ".png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := map[string]bool{}
			imageKeys := map[string]bool{}
			for _, i := range tt.images {
				if k := ImageKey(i); k != "" {
					imageKeys[k] = true
				}
			}
			for _, v := range tt.vocab {
				if n := Normalize(v); n != "" && imageKeys[n] {
					want[n] = true
				}
			}

			lib := Reconcile(tt.vocab, tt.images)
			got := map[string]bool{}
			for _, w := range lib.Words() {
				got[w] = true
				f, ok := lib.ImageFile(w)
				require.True(t, ok, "valid word %q has no image", w)
				assert.Equal(t, w, ImageKey(f))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	vocab := []string{"Ear", "nose", "Eye", "head"}
	images := []string{"head.png", "ear.png", "nose.jpg", "unused.png"}

	first := Reconcile(vocab, images)
	second := Reconcile(vocab, images)

	assert.Equal(t, first.Words(), second.Words())
	assert.Equal(t, first.Mapping(), second.Mapping())
}

func TestReconcileCollision(t *testing.T) {
	// order of the input listing must not matter
	a := Reconcile([]string{"ear"}, []string{"ear.png", "Ear.jpg"})
	b := Reconcile([]string{"ear"}, []string{"Ear.jpg", "ear.png"})

	fa, _ := a.ImageFile("ear")
	fb, _ := b.ImageFile("ear")
	assert.Equal(t, "Ear.jpg", fa)
	assert.Equal(t, fa, fb)
}

func TestReconcileCopies(t *testing.T) {
	lib := Reconcile([]string{"ear", "nose"}, []string{"ear.png", "nose.png"})

	words := lib.Words()
	words[0] = "changed"
	m := lib.Mapping()
	delete(m, "ear")

	assert.Equal(t, []string{"ear", "nose"}, lib.Words())
	assert.Len(t, lib.Mapping(), 2)
}

func TestHasImageFile(t *testing.T) {
	dir := testutil.CreateImageDir(t, "ear.png", "nose.jpg")
	files, err := ListImages(dir)
	require.NoError(t, err)

	lib := Reconcile([]string{"ear", "nose"}, files)
	lib.dir = dir

	assert.True(t, lib.HasImageFile("ear"))
	require.NoError(t, os.Remove(filepath.Join(dir, "ear.png")))
	assert.False(t, lib.HasImageFile("ear"))
	assert.True(t, lib.HasImageFile("nose"))
	assert.False(t, lib.HasImageFile("eye"))
}

func TestListImages(t *testing.T) {
	dir := testutil.CreateImageDir(t, "ear.png", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	names, err := ListImages(dir)
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"ear.png", "notes.txt"}, names)

	_, err = ListImages(filepath.Join(dir, "absent"))
	assert.ErrorIs(t, err, ErrImageDirMissing)

	_, err = ListImages(filepath.Join(dir, "ear.png"))
	assert.ErrorIs(t, err, ErrImageDirMissing)
}
