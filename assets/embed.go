// Package assets embeds the static data shipped with the server: the curated
// answer list, the offline guess list and the SQL migrations.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.json allowed.txt sql/*.sql
var FS embed.FS

// WordsJSON returns the raw curated answer list.
func WordsJSON() ([]byte, error) {
	return FS.ReadFile("words.json")
}

// AllowedList returns the offline guess list, one uppercase word per line.
func AllowedList() ([]string, error) {
	f, err := FS.Open("allowed.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// Migrations returns the embedded migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
