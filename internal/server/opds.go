package server

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opds-community/libopds2-go/opds1"

	"bookverse/internal/response"
	"bookverse/internal/search"
)

const (
	opdsContentType = "application/atom+xml;profile=opds-catalog"
	opdsImageRel    = "http://opds-spec.org/image"
	atomNamespace   = "http://www.w3.org/2005/Atom"
)

// opdsCatalog serves the searchable catalog as an OPDS 1.1 acquisition
// feed, so e-reader apps can browse it. The same criteria parameters as
// /books apply.
func opdsCatalog(se *search.Engine, rr *response.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := parseCriteria(r.URL.Query())
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		page, err := se.Search(r.Context(), criteria)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		feed := opds1.Feed{
			ID:      "tag:bookverse:catalog",
			Title:   "Bookverse Catalog",
			Updated: time.Now().UTC(),
			Links: []opds1.Link{{
				Rel:      "self",
				Href:     r.URL.String(),
				TypeLink: opdsContentType,
			}},
		}

		for _, book := range page.Items {
			entry := opds1.Entry{
				ID:    "tag:bookverse:book:" + book.Id,
				Title: book.Title,
				Author: []opds1.Author{{
					Name: book.Author,
				}},
				Content: opds1.Content{
					Content:     entrySummary(book.Author, book.Year),
					ContentType: "text",
				},
			}

			for _, genre := range book.Genres {
				entry.Category = append(entry.Category, opds1.Category{
					Term:  string(genre),
					Label: string(genre),
				})
			}

			if book.Cover != "" {
				entry.Links = append(entry.Links, opds1.Link{
					Rel:      opdsImageRel,
					Href:     book.Cover,
					TypeLink: "image/jpeg",
				})
			}

			feed.Entries = append(feed.Entries, entry)
		}

		w.Header().Set("Content-Type", opdsContentType)
		_, _ = w.Write([]byte(xml.Header))

		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		err = enc.EncodeElement(feed, xml.StartElement{
			Name: xml.Name{Space: atomNamespace, Local: "feed"},
		})
		if err == nil {
			err = enc.Flush()
		}
		if err != nil {
			// headers are gone already, nothing left to do but log
			slog.ErrorContext(r.Context(), "failed to encode OPDS feed: "+err.Error())
		}
	}
}

func entrySummary(author string, year uint16) string {
	if year == 0 {
		return "by " + author
	}

	return fmt.Sprintf("by %s (%d)", author, year)
}
