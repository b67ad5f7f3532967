package pages

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/item"
	"github.com/stellasorawiki/wikigen/upload"
)

const (
	itemSummary     = "batch create item pages"
	itemIconText    = "[[Category:Item icons]]"
	itemIconSummary = "Batch upload item icons"
)

// itemPages writes a page for every item id and uploads the icons of the
// pages it wrote. Without overwrite, existing pages are left alone.
func (e *Env) itemPages(ctx context.Context, ids []int, intro, category string, overwrite bool) error {
	items, err := e.Items()
	if err != nil {
		return err
	}
	var list []*item.Item
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		it, ok := items[id]
		if !ok {
			log.Warn().Int("item_id", id).Msg("[Jobs] unknown item, no page")
			continue
		}
		list = append(list, it)
		titles = append(titles, it.Title)
	}
	if len(list) == 0 {
		return nil
	}
	pages, err := e.Wiki.Pages(ctx, titles)
	if err != nil {
		return err
	}

	t := &tally{job: "items"}
	defer t.log()
	var reqs []upload.Request
	for i, p := range pages {
		it := list[i]
		if p.Exists && !overwrite {
			t.skipped++
			continue
		}
		text := it.PageText(intro)
		if category != "" {
			text += "\n[[Category:" + category + "]]"
		}
		if err := e.save(ctx, t, p, text, itemSummary); err != nil {
			return err
		}
		reqs = append(reqs, upload.Request{
			Source:  it.FilePath(e.Config.Data.AssetRoot),
			Target:  it.FilePage(),
			Text:    itemIconText,
			Summary: itemIconSummary,
		})
	}
	return e.upload(ctx, reqs)
}

// materialItems lists every item used to upgrade characters, gold included.
func materialItems(env *Env) ([]int, error) {
	seen := map[int]bool{item.GoldID: true}
	for _, name := range []string{character.AdvanceTable, character.SkillUpgradeTable} {
		mats, err := character.AdvanceMaterials(env.Store, name)
		if err != nil {
			return nil, err
		}
		for _, list := range mats {
			for _, m := range list {
				for _, q := range m.Items {
					seen[q.ItemID] = true
				}
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func itemsJob(ctx context.Context, env *Env) error {
	ids, err := materialItems(env)
	if err != nil {
		return err
	}
	return env.itemPages(ctx, ids, "", "", false)
}
