package report

import (
	"sort"

	"github.com/spigell/ats-scorer/internal/batch"
)

// JobRanking lists scored résumés for one job description, best first.
type JobRanking struct {
	JobDescription string
	Rows           batch.Rows
}

func (j JobRanking) JobName() string {
	return batch.Row{JobDescription: j.JobDescription}.JobName()
}

// Rank groups rows by job description in first-seen order and sorts each
// group by similarity, highest first. Ties keep processing order; failed rows
// are left out.
func Rank(rows batch.Rows) []JobRanking {
	index := make(map[string]int)
	var rankings []JobRanking

	for _, row := range rows {
		if row.Failed() {
			continue
		}

		i, ok := index[row.JobDescription]
		if !ok {
			i = len(rankings)
			index[row.JobDescription] = i
			rankings = append(rankings, JobRanking{JobDescription: row.JobDescription})
		}
		rankings[i].Rows = append(rankings[i].Rows, row)
	}

	for _, ranking := range rankings {
		sort.SliceStable(ranking.Rows, func(a, b int) bool {
			return ranking.Rows[a].Similarity() > ranking.Rows[b].Similarity()
		})
	}

	return rankings
}
