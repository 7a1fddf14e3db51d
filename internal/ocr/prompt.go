package ocr

// slipPrompt describes the paper slip layout used at the venue.
const slipPrompt = `この画像は飲食店の伝票です。以下のレイアウトで情報を抽出してJSON形式で返してください：

【伝票のレイアウト】
- 日付: 右上に記載（例: 令和8年1月20日）→ YYYY-MM-DD形式に変換
- キャスト名: 左上に記載（例: ママ、まま、MAMA など）※カタカナ、ひらがな、漢字、アルファベットの可能性あり
- セット: 品名の一つ下の行に記載（数字が含まれている場合はその数字を抽出）金額: 一番右の列に記載
- ミネアイスの合計: 一番右の列に記載
- 合計金額: 一番右の列の最下部に記載

【抽出する情報】
- date: 日付（YYYY-MM-DD形式）※令和を西暦に変換（令和8年=2026年）
- names: キャスト名の配列（左上から最大3名、必ず抽出してください）
- total: 合計金額（一番右の列の最下部、数値のみ）
- set: セット情報の数字部分（例: "セット3000"なら3000、数字のみ抽出）
- mine_ice: ミネアイスの合計金額（一番右の列、数値のみ、あれば）

【重要な注意事項】
1. キャスト名は必ず抽出してください
2. 金額は数字のみを抽出してください（カンマや円マークは除く）
3. 日付が見つからない場合は空文字にしてください
4. JSONのみを返し、他の説明は不要です

【出力例】
{
  "date": "2026-01-20",
  "names": ["ママ"],
  "total": 15000,
  "set": 3000,
  "mine_ice": 2000
}`
