package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/critcoin/critcoin-api/internal/models"
)

const leaderboardDepth = 3

// nameResolver freezes display names as they were when the archive was taken.
type nameResolver map[string]string

func newNameResolver(profiles []models.Profile) nameResolver {
	names := make(nameResolver, len(profiles))
	for _, p := range profiles {
		names[strings.ToLower(strings.TrimSpace(p.WalletAddress))] = strings.TrimSpace(p.Name)
	}
	return names
}

func (n nameResolver) resolve(wallet string) string {
	if name := n[strings.ToLower(strings.TrimSpace(wallet))]; name != "" {
		return name
	}
	return shortenWallet(wallet)
}

// shortenWallet renders 0x1234...abcd for wallets without a profile name.
func shortenWallet(wallet string) string {
	wallet = strings.TrimSpace(wallet)
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}

// buildSemesterArchive copies the live snapshot into frozen archive sections
// and computes stats and the per-slot leaderboard. Metadata is left to the caller.
func buildSemesterArchive(snapshot *models.LiveSnapshot, slots int) *models.SemesterArchive {
	if snapshot == nil {
		snapshot = &models.LiveSnapshot{}
	}
	names := newNameResolver(snapshot.Profiles)
	archive := &models.SemesterArchive{
		Profiles:     archiveProfiles(snapshot.Profiles),
		Projects:     archiveProjects(snapshot.Projects, names),
		Posts:        archivePosts(snapshot.Posts, snapshot.Comments, names),
		Transactions: archiveTransactions(snapshot.Transactions, names),
		Bounties:     archiveBounties(snapshot.Bounties, names),
		Leaderboard:  computeLeaderboard(snapshot.Projects, slots, names),
	}
	archive.Stats = computeStats(snapshot)
	return archive
}

func computeStats(snapshot *models.LiveSnapshot) models.ArchiveStats {
	transferred := decimal.Zero
	for _, tx := range snapshot.Transactions {
		transferred = transferred.Add(tx.Amount)
	}
	return models.ArchiveStats{
		TotalProfiles:            len(snapshot.Profiles),
		TotalProjects:            len(snapshot.Projects),
		TotalPosts:               len(snapshot.Posts),
		TotalComments:            len(snapshot.Comments),
		TotalTransactions:        len(snapshot.Transactions),
		TotalBounties:            len(snapshot.Bounties),
		TotalCritCoinTransferred: transferred,
	}
}

func archiveProfiles(profiles []models.Profile) []models.ArchivedProfile {
	out := make([]models.ArchivedProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, models.ArchivedProfile{
			ID:            p.ID,
			WalletAddress: p.WalletAddress,
			Name:          p.Name,
			Photo:         p.Photo,
			Bio:           p.Bio,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out
}

func archiveProjects(projects []models.Project, names nameResolver) []models.ArchivedProject {
	out := make([]models.ArchivedProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, models.ArchivedProject{
			ID:            p.ID,
			WalletAddress: p.WalletAddress,
			AuthorName:    names.resolve(p.WalletAddress),
			Title:         p.Title,
			Description:   p.Description,
			Slot:          p.Slot,
			Link:          p.Link,
			Image:         p.Image,
			TotalReceived: p.TotalReceived,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out
}

// archivePosts nests comments under their post and replies under the
// top-level comment they ultimately answer.
func archivePosts(posts []models.Post, comments []models.Comment, names nameResolver) []models.ArchivedPost {
	byID := make(map[string]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	topLevel := make(map[string][]models.Comment, len(posts))
	replies := make(map[string][]models.Comment)
	for _, c := range comments {
		if !c.IsReply() {
			topLevel[c.PostID] = append(topLevel[c.PostID], c)
			continue
		}
		if root, ok := rootComment(c, byID); ok {
			replies[root] = append(replies[root], c)
		}
	}

	out := make([]models.ArchivedPost, 0, len(posts))
	for _, p := range posts {
		archived := models.ArchivedPost{
			ID:            p.ID,
			WalletAddress: p.WalletAddress,
			AuthorName:    names.resolve(p.WalletAddress),
			Title:         p.Title,
			Content:       p.Content,
			CreatedAt:     p.CreatedAt,
			Comments:      make([]models.ArchivedComment, 0, len(topLevel[p.ID])),
		}
		for _, c := range topLevel[p.ID] {
			comment := models.ArchivedComment{
				ID:            c.ID,
				WalletAddress: c.WalletAddress,
				AuthorName:    names.resolve(c.WalletAddress),
				Content:       c.Content,
				CreatedAt:     c.CreatedAt,
				Replies:       make([]models.ArchivedReply, 0, len(replies[c.ID])),
			}
			for _, r := range replies[c.ID] {
				comment.Replies = append(comment.Replies, models.ArchivedReply{
					ID:            r.ID,
					WalletAddress: r.WalletAddress,
					AuthorName:    names.resolve(r.WalletAddress),
					Content:       r.Content,
					CreatedAt:     r.CreatedAt,
				})
			}
			archived.Comments = append(archived.Comments, comment)
		}
		out = append(out, archived)
	}
	return out
}

// rootComment walks parent links up to a top-level comment of the same post.
// Orphans, cycles and chains that cross into another post report false.
func rootComment(c models.Comment, byID map[string]models.Comment) (string, bool) {
	current := c
	for hops := 0; hops <= len(byID); hops++ {
		if !current.IsReply() {
			return current.ID, true
		}
		parent, ok := byID[*current.ParentID]
		if !ok || parent.PostID != c.PostID {
			return "", false
		}
		current = parent
	}
	return "", false
}

func archiveTransactions(transactions []models.Transaction, names nameResolver) []models.ArchivedTransaction {
	out := make([]models.ArchivedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, models.ArchivedTransaction{
			ID:         tx.ID,
			FromWallet: tx.FromWallet,
			FromName:   names.resolve(tx.FromWallet),
			ToWallet:   tx.ToWallet,
			ToName:     names.resolve(tx.ToWallet),
			Amount:     tx.Amount,
			TxHash:     tx.TxHash,
			Memo:       tx.Memo,
			CreatedAt:  tx.CreatedAt,
		})
	}
	return out
}

func archiveBounties(bounties []models.Bounty, names nameResolver) []models.ArchivedBounty {
	out := make([]models.ArchivedBounty, 0, len(bounties))
	for _, b := range bounties {
		archived := models.ArchivedBounty{
			ID:            b.ID,
			WalletAddress: b.WalletAddress,
			CreatorName:   names.resolve(b.WalletAddress),
			Title:         b.Title,
			Description:   b.Description,
			Reward:        b.Reward,
			Status:        b.Status,
			CreatedAt:     b.CreatedAt,
		}
		if b.ClaimedBy != nil && strings.TrimSpace(*b.ClaimedBy) != "" {
			archived.ClaimedBy = *b.ClaimedBy
			archived.ClaimedByName = names.resolve(*b.ClaimedBy)
		}
		out = append(out, archived)
	}
	return out
}

// computeLeaderboard returns one entry per slot 1..slots holding the top
// projects by total received. Ties go to the earlier submission, then the
// lower id. Slots without projects are still present.
func computeLeaderboard(projects []models.Project, slots int, names nameResolver) []models.LeaderboardSlot {
	bySlot := make(map[int][]models.Project, slots)
	for _, p := range projects {
		if p.Slot < 1 || p.Slot > slots {
			continue
		}
		bySlot[p.Slot] = append(bySlot[p.Slot], p)
	}

	board := make([]models.LeaderboardSlot, 0, slots)
	for slot := 1; slot <= slots; slot++ {
		candidates := bySlot[slot]
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if cmp := a.TotalReceived.Cmp(b.TotalReceived); cmp != 0 {
				return cmp > 0
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		if len(candidates) > leaderboardDepth {
			candidates = candidates[:leaderboardDepth]
		}
		entries := make([]models.LeaderboardEntry, 0, len(candidates))
		for i, p := range candidates {
			entries = append(entries, models.LeaderboardEntry{
				Rank:          i + 1,
				ProjectID:     p.ID,
				Title:         p.Title,
				WalletAddress: p.WalletAddress,
				AuthorName:    names.resolve(p.WalletAddress),
				TotalReceived: p.TotalReceived,
			})
		}
		board = append(board, models.LeaderboardSlot{Slot: slot, Entries: entries})
	}
	return board
}
