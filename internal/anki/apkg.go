package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/theni/internal"
)

// APKG builds an Anki package (.apkg): a zip holding the SQLite collection,
// the numbered media files and the media index.
type APKG struct {
	deckName string
	deckID   int64
	modelID  int64
	now      time.Time
	cards    []Card
}

// NewAPKG creates a package builder for deckName.
func NewAPKG(deckName string, cards []Card) *APKG {
	now := time.Now()
	return &APKG{
		deckName: deckName,
		deckID:   now.UnixMilli(),
		modelID:  now.UnixMilli() + 1,
		now:      now,
		cards:    cards,
	}
}

// Write creates the .apkg file at outputPath.
func (a *APKG) Write(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "theni_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	media, err := copyMedia(a.cards, tempDir)
	if err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	index := make(map[string]string, len(media))
	for name, num := range media {
		index[strconv.Itoa(num)] = name
	}
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tempDir, "media"), data, 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	if err := a.createDatabase(filepath.Join(tempDir, "collection.anki2"), media); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := zipDir(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// copyMedia copies every picture to a numbered file and returns the media
// name to number map.
func copyMedia(cards []Card, dir string) (map[string]int, error) {
	media := make(map[string]int)
	for _, c := range cards {
		if c.ImageFile == "" {
			continue
		}
		name := filepath.Base(c.ImageFile)
		if _, ok := media[name]; ok {
			continue
		}
		num := len(media)
		if err := copyFile(c.ImageFile, filepath.Join(dir, strconv.Itoa(num))); err != nil {
			return nil, fmt.Errorf("%s: %w", c.ImageFile, err)
		}
		media[name] = num
	}
	return media, nil
}

func (a *APKG) createDatabase(path string, media map[string]int) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	if err := a.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, c := range a.cards {
		noteID := a.now.UnixMilli() + int64(i*2)
		picture := ""
		if _, ok := media[filepath.Base(c.ImageFile)]; ok && c.ImageFile != "" {
			picture = imageField(filepath.Base(c.ImageFile))
		}

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID,
			"th_"+internal.GenerateNoteID(c.Word, a.now),
			a.modelID,
			a.now.Unix(),
			-1,
			"theni",
			strings.Join([]string{picture, c.Word}, "\x1f"),
			c.Word, // sort field
			0,
			0,
			"",
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		// new card: due holds the position in the new queue
		_, err = tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID+1, noteID, a.deckID, 0, a.now.Unix(), -1,
			0, 0, i+1, 0, 0, 0, 0, 0, 0, 0, 0, "",
		)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
	}

	return tx.Commit()
}

func (a *APKG) insertCollection(db *sql.DB) error {
	now := a.now.Unix()

	deck := func(id int64, name, desc string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "desc": desc, "mod": now, "usn": 0,
			"collapsed": false, "browserCollapsed": false, "dyn": 0, "conf": 1,
			"newToday": []int{0, 0}, "revToday": []int{0, 0},
			"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
			"extendNew": 10, "extendRev": 50,
		}
	}
	decks, _ := json.Marshal(map[string]any{
		"1":                              deck(1, "Default", ""),
		strconv.FormatInt(a.deckID, 10): deck(a.deckID, a.deckName, "Picture and word cards exported by theni"),
	})

	models, _ := json.Marshal(map[string]any{
		strconv.FormatInt(a.modelID, 10): a.noteType(),
	})

	conf, _ := json.Marshal(map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []int64{1},
		"sortType": "noteFld", "sortBackwards": false, "addToCur": true,
		"curDeck": 1, "newSpread": 0, "dueCounts": true, "collapseTime": 1200,
		"timeLim": 0, "schedVer": 1, "dayLearnFirst": false,
		"curModel": strconv.FormatInt(a.modelID, 10),
	})

	dconf, _ := json.Marshal(map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": now,
			"timer": 0, "maxTaken": 60, "autoplay": true, "replayq": true,
			"new": map[string]any{
				"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500,
				"perDay": 20, "order": 1, "bury": true, "separate": true,
			},
			"lapse": map[string]any{
				"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0,
			},
			"rev": map[string]any{
				"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500,
				"ivlFct": 1, "bury": true, "minSpace": 1,
			},
		},
	})

	_, err := db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, now, now*1000, now*1000,
		11, // schema version
		0, 0, 0,
		string(conf), string(models), string(decks), string(dconf),
		"{}",
	)
	return err
}

func (a *APKG) noteType() map[string]any {
	field := func(name string, ord int) map[string]any {
		return map[string]any{
			"name": name, "ord": ord, "sticky": false, "rtl": false,
			"font": "Arial", "size": 20, "media": []string{},
		}
	}
	return map[string]any{
		"id":    a.modelID,
		"name":  "theni Picture → Word",
		"type":  0,
		"mod":   a.now.Unix(),
		"usn":   -1,
		"sortf": 1,
		"did":   a.deckID,
		"req":   [][]any{{0, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"flds":  []map[string]any{field("Picture", 0), field("Word", 1)},
		"tmpls": []map[string]any{{
			"name":  "Picture",
			"ord":   0,
			"qfmt":  `<div class="picture">{{Picture}}</div>`,
			"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n<div class=\"word\">{{Word}}</div>",
			"did":   nil,
			"bqfmt": "",
			"bafmt": "",
		}},
		"css": cardCSS,
		"latexPre": "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
			"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n" +
			"\\setlength{\\parindent}{0in}\n\\begin{document}",
		"latexPost": "\\end{document}",
	}
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  text-align: center;
  color: #333;
  background-color: white;
}

.picture img {
  max-width: 300px;
  height: auto;
}

.word {
  font-size: 36px;
  font-weight: bold;
  margin: 20px 0;
}`

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

func zipDir(dir, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := addToZip(archive, filepath.Join(dir, e.Name()), e.Name()); err != nil {
			return err
		}
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addToZip(archive *zip.Writer, path, name string) error {
	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
