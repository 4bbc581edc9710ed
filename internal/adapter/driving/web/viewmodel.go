package web

import (
	"fmt"

	vm "github.com/ericfisherdev/ibank/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

func screenPath(id model.ScreenID) string {
	return "/app/" + string(id)
}

// toTabs builds the tab bar with active marking the current screen.
func toTabs(screens []*application.ListScreen, active model.ScreenID) []vm.TabViewModel {
	tabs := make([]vm.TabViewModel, 0, len(screens))
	for _, s := range screens {
		tabs = append(tabs, vm.TabViewModel{
			Title:  s.Title(),
			Path:   screenPath(s.ID()),
			Active: s.ID() == active,
		})
	}
	return tabs
}

// toListPage converts a screen's rows and pending alert into the list page view model.
func toListPage(
	screen *application.ListScreen,
	tabs []vm.TabViewModel,
	rows []application.ListItem,
	csrf string,
) vm.ListPageViewModel {
	base := screenPath(screen.ID())

	page := vm.ListPageViewModel{
		Title:      screen.Title(),
		Action:     screen.Action(),
		Tabs:       tabs,
		Rows:       make([]vm.RowViewModel, 0, len(rows)),
		RefreshURL: base + "/refresh",
		CSRFToken:  csrf,
	}

	for i, row := range rows {
		page.Rows = append(page.Rows, vm.RowViewModel{
			Title:      row.Title,
			Subtitle:   row.Subtitle,
			DetailPath: fmt.Sprintf("%s/%d", base, i),
		})
	}

	if alert, ok := screen.Alert(); ok {
		page.Alert = &vm.AlertViewModel{
			Title:      alert.Title,
			Message:    alert.Message,
			Action:     alert.Action,
			DismissURL: base + "/alert/dismiss",
		}
	}

	return page
}

// toDetailPage converts the selected item into label/value lines. Transfer
// descriptions are rendered as sanitized markdown.
func toDetailPage(
	screen *application.ListScreen,
	tabs []vm.TabViewModel,
	item model.Item,
	f *application.Formatter,
) vm.DetailPageViewModel {
	page := vm.DetailPageViewModel{
		BackPath: screenPath(screen.ID()),
		Tabs:     tabs,
	}

	switch item.Kind {
	case model.ItemKindFriend:
		page.Title = item.Friend.Name
		page.Fields = []vm.FieldViewModel{
			{Label: "Name", Value: item.Friend.Name},
			{Label: "Phone", Value: item.Friend.Phone},
		}
	case model.ItemKindCard:
		page.Title = item.Card.Number
		page.Fields = []vm.FieldViewModel{
			{Label: "Number", Value: item.Card.Number},
			{Label: "Holder", Value: item.Card.Holder},
		}
	case model.ItemKindTransfer:
		t := item.Transfer
		page.Title = f.Amount(t.Amount, t.CurrencyCode)
		page.Fields = []vm.FieldViewModel{
			{Label: "Amount", Value: f.Amount(t.Amount, t.CurrencyCode)},
			{Label: "From", Value: t.Sender},
			{Label: "To", Value: t.Recipient},
			{Label: "Date", Value: f.Date(t.Date, application.DateStyleLong)},
		}
		page.DescriptionHTML = RenderMarkdown(t.Description)
	}

	return page
}
