package fetch

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// instanceID отчета Telerik - 32 шестнадцатеричных символа в URL запросов
var instanceRe = regexp.MustCompile(`instanceID=([0-9a-f]{32})`)

// Сколько ждать сетевых запросов страницы отчета после загрузки
const instanceSniffTimeout = 50 * time.Second

// DiscoverInstanceID открывает страницу отчета в браузере с постоянным
// профилем (там хранится авторизованная сессия) и перехватывает instanceID
// из сетевого трафика viewer'а. Без залогиненного профиля instanceID
// в трафике не появится.
func (f *Fetcher) DiscoverInstanceID(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(f.config.BrowserProfileDir),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	found := make(chan string, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if req, ok := ev.(*network.EventRequestWillBeSent); ok {
			if m := instanceRe.FindStringSubmatch(req.Request.URL); m != nil {
				select {
				case found <- m[1]:
				default:
				}
			}
		}
	})

	f.logger.Info("Открываем страницу отчета для перехвата instanceID: %s", f.config.ReportPageURL)
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(f.config.ReportPageURL),
	); err != nil {
		return "", fmt.Errorf("ошибка открытия страницы отчета: %w", err)
	}

	// Даем viewer'у время инициализироваться и выполнить свои запросы
	select {
	case instanceID := <-found:
		f.logger.Info("Перехвачен instanceID: %s", instanceID)
		return instanceID, nil
	case <-time.After(instanceSniffTimeout):
		return "", fmt.Errorf("instanceID не появился в сетевом трафике: " +
			"профиль браузера не авторизован или задана не та страница отчета")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
