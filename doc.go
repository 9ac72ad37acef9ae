// Package corpus prepares Russian text corpora for language model training.
//
// # Quick Start
//
//	cfg := corpus.DefaultConfig()
//	cfg.Root, cfg.Target = "archives", "data"
//
//	p, err := corpus.New(cfg, corpus.WithConcurrency(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reports, err := p.Run(ctx)
//
// Each configured source names an archive below Root and the reader used to
// extract its documents. Documents are normalized, assigned to a
// train/valid/test split from a hash of their group and written below
// Target/<source>. Every Report carries per-split statistics.
//
// # Sources
//
// The default configuration reads four archives:
//   - taiga-subtitles: Subtitles.tar.gz from the Taiga corpus, grouped by series
//   - taiga-news: news.zip from the Taiga corpus, one group per article
//   - rnc-main, rnc-paper: the main and newspaper collections of ruscorpora.tar.gz
//
// A missing archive is logged and skipped. Unreadable entries are logged,
// counted in Report.Skipped and processing continues.
//
// # Determinism
//
// Split assignment depends only on the document group and the source's train
// ratio, so repeated runs over the same archives produce identical splits.
package corpus
