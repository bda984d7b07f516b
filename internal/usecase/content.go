package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/nickppf/nickppf-api/internal/entity"
)

var ErrContentNotFound = errors.New("content not found")

const defaultLoadTimeout = 15 * time.Second

// Nomes das coleções no Directus (com a capitalização de lá).
const (
	CollectionCategories    = "Categories"
	CollectionSubcategories = "Subcategories"
	CollectionProducts      = "Products"
	CollectionNews          = "news"
	CollectionFeaturedNews  = "Featured_news"
	CollectionCatalogue     = "catalogue"
	CollectionAboutUs       = "about_us_content"
	CollectionAwards        = "awards"
	CollectionCertificates  = "certificates"
)

// ContentService serve o conteúdo das páginas com cache curto.
// Falhas de leitura em listas viram lista vazia, como o site sempre fez.
type ContentService struct {
	CMS    ContentReader
	Logger *zap.Logger

	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	mu          sync.Mutex
	cache       map[string]cacheEntry
	group       singleflight.Group
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func NewContentService(cms ContentReader, ttl time.Duration, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		CMS:         cms,
		Logger:      logger,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
		cache:       make(map[string]cacheEntry),
	}
}

func (s *ContentService) Categories(ctx context.Context) []entity.Category {
	return list[entity.Category](ctx, s, CollectionCategories, nil)
}

func (s *ContentService) Subcategories(ctx context.Context) []entity.Subcategory {
	return list[entity.Subcategory](ctx, s, CollectionSubcategories, nil)
}

func (s *ContentService) Products(ctx context.Context) []entity.Product {
	q := url.Values{}
	q.Set("fields", "*,Featured_image.directus_files_id")
	q.Set("limit", "-1")
	return list[entity.Product](ctx, s, CollectionProducts, q)
}

func (s *ContentService) Catalogue(ctx context.Context) []entity.CatalogueItem {
	q := url.Values{}
	q.Set("filter", `{"status":{"_eq":"published"}}`)
	q.Set("sort", "sort")
	return list[entity.CatalogueItem](ctx, s, CollectionCatalogue, q)
}

func (s *ContentService) Articles(ctx context.Context) []entity.Article {
	q := url.Values{}
	q.Set("sort", "-date_created")
	return list[entity.Article](ctx, s, CollectionNews, q)
}

func (s *ContentService) ArticleBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	q := url.Values{}
	q.Set("filter[slug][_eq]", slug)
	q.Set("limit", "1")

	v, err := s.cached(ctx, "article:"+slug, func(ctx context.Context) (any, error) {
		var items []entity.Article
		if err := s.CMS.Items(ctx, CollectionNews, q, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return (*entity.Article)(nil), nil
		}
		return &items[0], nil
	})
	if err != nil {
		return nil, &TechnicalError{Code: "CMS_ERROR", Message: "failed to load article", Err: err}
	}

	article := v.(*entity.Article)
	if article == nil {
		return nil, ErrContentNotFound
	}
	return article, nil
}

// FeaturedArticle segue Featured_news -> news/{id}. Featured_news pode ser singleton.
func (s *ContentService) FeaturedArticle(ctx context.Context) (*entity.Article, error) {
	v, err := s.cached(ctx, "article:featured", func(ctx context.Context) (any, error) {
		q := url.Values{}
		q.Set("limit", "1")

		var raw json.RawMessage
		if err := s.CMS.Items(ctx, CollectionFeaturedNews, q, &raw); err != nil {
			return nil, err
		}
		featured, err := firstOf[entity.FeaturedNews](raw)
		if err != nil {
			return nil, err
		}
		if featured == nil || featured.NewsToFeature == 0 {
			return (*entity.Article)(nil), nil
		}

		var article entity.Article
		err = s.CMS.Item(ctx, CollectionNews, strconv.Itoa(featured.NewsToFeature), &article)
		if errors.Is(err, entity.ErrItemNotFound) {
			// destaque apontando para notícia apagada
			return (*entity.Article)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return &article, nil
	})
	if err != nil {
		return nil, &TechnicalError{Code: "CMS_ERROR", Message: "failed to load featured article", Err: err}
	}

	article := v.(*entity.Article)
	if article == nil {
		return nil, ErrContentNotFound
	}
	return article, nil
}

// About busca as três coleções em paralelo.
func (s *ContentService) About(ctx context.Context) *entity.AboutPage {
	page := &entity.AboutPage{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.Content = s.aboutContent(gctx)
		return nil
	})
	g.Go(func() error {
		page.Awards = list[entity.Award](gctx, s, CollectionAwards, nil)
		return nil
	})
	g.Go(func() error {
		page.Certificates = list[entity.Certificate](gctx, s, CollectionCertificates, nil)
		return nil
	})
	_ = g.Wait()

	return page
}

func (s *ContentService) aboutContent(ctx context.Context) *entity.AboutUsContent {
	v, err := s.cached(ctx, CollectionAboutUs, func(ctx context.Context) (any, error) {
		var raw json.RawMessage
		if err := s.CMS.Items(ctx, CollectionAboutUs, nil, &raw); err != nil {
			return nil, err
		}
		return firstOf[entity.AboutUsContent](raw)
	})
	if err != nil {
		s.Logger.Error("falha ao carregar conteúdo do CMS", zap.String("collection", CollectionAboutUs), zap.Error(err))
		return nil
	}
	return v.(*entity.AboutUsContent)
}

func (s *ContentService) Stats(ctx context.Context) entity.Stats {
	var stats entity.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats.Products = s.count(gctx, CollectionProducts)
		return nil
	})
	g.Go(func() error {
		stats.Articles = s.count(gctx, CollectionNews)
		return nil
	})
	_ = g.Wait()

	return stats
}

func (s *ContentService) count(ctx context.Context, collection string) int {
	v, err := s.cached(ctx, "count:"+collection, func(ctx context.Context) (any, error) {
		return s.CMS.Count(ctx, collection)
	})
	if err != nil {
		s.Logger.Error("falha ao contar itens no CMS", zap.String("collection", collection), zap.Error(err))
		return 0
	}
	return v.(int)
}

func list[T any](ctx context.Context, s *ContentService, collection string, query url.Values) []T {
	key := collection + "?" + query.Encode()
	v, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		var items []T
		if err := s.CMS.Items(ctx, collection, query, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	})
	if err != nil {
		s.Logger.Error("falha ao carregar conteúdo do CMS", zap.String("collection", collection), zap.Error(err))
		return []T{}
	}
	return v.([]T)
}

// cached só guarda sucessos; chamadas simultâneas para a mesma chave viram uma só.
// A carga compartilhada não herda o cancelamento de quem chegou primeiro.
func (s *ContentService) cached(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	if e, ok := s.cache[key]; ok && s.now().Before(e.expires) {
		s.mu.Unlock()
		return e.value, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = cacheEntry{value: v, expires: s.now().Add(s.ttl)}
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

// firstOf aceita tanto lista quanto objeto único (singleton do Directus).
func firstOf[T any](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}
		return &items[0], nil
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
