package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"promofeed/amd"
	"promofeed/db"
)

// Commit is one git revision that touched the raw response file.
type Commit struct {
	SHA       string
	Timestamp time.Time
}

// Run walks the git history of the raw response file inside repoDir and
// records one availability snapshot set per commit, using the commit author
// timestamp. Commits where the file is missing or not valid JSON are skipped.
// Inserts are idempotent, so re-running over already-backfilled history is
// safe.
func Run(ctx context.Context, store *db.DB, repoDir, relPath string) error {
	commits, err := CommitHistory(ctx, repoDir, relPath)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"commits": len(commits),
		"path":    relPath,
	}).Info("Backfilling availability history from git")

	var recorded int
	for _, commit := range commits {
		content, err := fileAtCommit(ctx, repoDir, commit.SHA, relPath)
		if err != nil {
			// File may not exist at this commit
			log.WithFields(log.Fields{
				"sha": commit.SHA,
			}).Debug("File missing at commit, skipping")
			continue
		}

		var response amd.PromotionsResponse
		if err := json.Unmarshal([]byte(content), &response); err != nil {
			log.WithFields(log.Fields{
				"sha": commit.SHA,
			}).Warn("Invalid JSON at commit, skipping")
			continue
		}

		if err := store.RecordPromotions(ctx, commit.Timestamp, response.Items); err != nil {
			return fmt.Errorf("recording snapshots for commit %s: %w", commit.SHA, err)
		}
		recorded++
	}

	log.WithFields(log.Fields{
		"recorded": recorded,
	}).Info("Backfill complete")

	return nil
}

// CommitHistory returns the commits touching relPath, oldest first, so
// snapshots append in chronological order.
func CommitHistory(ctx context.Context, repoDir, relPath string) ([]Commit, error) {
	out, err := runGit(ctx, repoDir, "--no-pager", "log", "--follow", "--format=%H|%ct", "--", relPath)
	if err != nil {
		return nil, fmt.Errorf("getting git log for %s: %w", relPath, err)
	}

	commits := ParseLog(out)

	// git log is newest first
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

// ParseLog parses "sha|unixsecs" lines as produced by the log format above.
// Malformed lines are skipped with a warning.
func ParseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sha, ts, found := strings.Cut(line, "|")
		if !found {
			log.WithFields(log.Fields{
				"line": line,
			}).Warn("Skipping malformed log line")
			continue
		}
		seconds, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			log.WithFields(log.Fields{
				"line": line,
			}).Warn("Skipping malformed log line")
			continue
		}
		commits = append(commits, Commit{SHA: sha, Timestamp: time.Unix(seconds, 0).UTC()})
	}
	return commits
}

func fileAtCommit(ctx context.Context, repoDir, sha, relPath string) (string, error) {
	return runGit(ctx, repoDir, "show", fmt.Sprintf("%s:%s", sha, relPath))
}

func runGit(ctx context.Context, repoDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoDir

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
