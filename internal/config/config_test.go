package config

import (
	"fmt"
	"sync"
	"testing"
)

// 模拟热更新：一边持续发布新配置快照，一边像请求处理那样
// 并发读取 JWT 密钥，配合 -race 验证发布路径无数据竞争
func TestActiveConcurrentReload(t *testing.T) {
	SetActive(&Config{JWT: JWTConfig{Secret: "secret-0"}})
	defer SetActive(nil)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			SetActive(&Config{JWT: JWTConfig{Secret: fmt.Sprintf("secret-%d", i)}})
		}
	}()

	var wg sync.WaitGroup

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				cfg := Active()
				if cfg == nil {
					t.Error("active config not published")
					return
				}
				if cfg.JWT.Secret == "" {
					t.Error("read torn config snapshot")
					return
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	<-done
}
