package googlebooks

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xiebiao/booknerds/internal/domain/catalog"
)

var errInvalidJSON = errors.New("catalog returned invalid json")

// parseSearch 解析搜索结果，items缺失视为无结果
func parseSearch(body []byte) ([]catalog.Book, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}

	items := gjson.GetBytes(body, "items")
	books := make([]catalog.Book, 0, len(items.Array()))
	items.ForEach(func(_, item gjson.Result) bool {
		books = append(books, toBook(item))
		return true
	})
	return books, nil
}

// parseVolume 解析单本图书
func parseVolume(body []byte) (*catalog.Book, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}

	root := gjson.ParseBytes(body)
	if !root.Get("id").Exists() {
		return nil, errors.New("catalog volume without id")
	}

	book := toBook(root)
	return &book, nil
}

// toBook 归一化volume
//
//	authors缺失 → "Unknown"
//	imageLinks.thumbnail缺失 → nil
//	description缺失或为空 → "No description available"
func toBook(v gjson.Result) catalog.Book {
	info := v.Get("volumeInfo")

	author := catalog.UnknownAuthor
	if authors := info.Get("authors").Array(); len(authors) > 0 {
		names := make([]string, 0, len(authors))
		for _, a := range authors {
			names = append(names, a.String())
		}
		author = strings.Join(names, catalog.AuthorSeparator)
	}

	var thumbnail *string
	if t := info.Get("imageLinks.thumbnail"); t.Exists() && t.String() != "" {
		s := t.String()
		thumbnail = &s
	}

	description := info.Get("description").String()
	if description == "" {
		description = catalog.NoDescription
	}

	return catalog.Book{
		ID:          v.Get("id").String(),
		Title:       info.Get("title").String(),
		Author:      author,
		Thumbnail:   thumbnail,
		Description: description,
	}
}
