package sources

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalizeKey lowercases the text, applies NFKC folding and strips
// everything that is not a letter, digit or space, collapsing whitespace.
func normalizeKey(s string) string {
	folded := norm.NFKC.String(strings.ToLower(s))

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity computes the Jaccard index over whitespace-tokenized word sets
// of the two normalized strings. The score is symmetric by construction.
func Similarity(a, b string) float64 {
	setA := tokenSet(normalizeKey(a))
	setB := tokenSet(normalizeKey(b))

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		set[token] = true
	}
	return set
}

// DedupeArticles removes near-duplicate articles, sorts the survivors by
// publication date descending and truncates to max. A candidate is compared
// against every previously accepted title, so the first-seen variant of a
// near-duplicate cluster is always the one kept.
func DedupeArticles(articles []Article, threshold float64, max int) []Article {
	accepted := make([]Article, 0, len(articles))

	for _, candidate := range articles {
		duplicate := false
		for _, kept := range accepted {
			if Similarity(candidate.Title, kept.Title) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, candidate)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].PublishedAt.After(accepted[j].PublishedAt)
	})

	if max > 0 && len(accepted) > max {
		accepted = accepted[:max]
	}

	return accepted
}

// DedupeImages removes images sharing a download URL (ignoring the query
// string). Exact match only; first occurrence wins and merge order is kept.
func DedupeImages(images []ImageAsset, max int) []ImageAsset {
	seen := make(map[string]bool)
	deduped := make([]ImageAsset, 0, len(images))

	for _, img := range images {
		key := stripQuery(img.DownloadURL)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, img)
	}

	if max > 0 && len(deduped) > max {
		deduped = deduped[:max]
	}

	return deduped
}

// DedupeVideos mirrors DedupeImages for video assets.
func DedupeVideos(videos []VideoAsset, max int) []VideoAsset {
	seen := make(map[string]bool)
	deduped := make([]VideoAsset, 0, len(videos))

	for _, vid := range videos {
		key := stripQuery(vid.DownloadURL)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, vid)
	}

	if max > 0 && len(deduped) > max {
		deduped = deduped[:max]
	}

	return deduped
}

func stripQuery(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
